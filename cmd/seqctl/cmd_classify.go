// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSequence/pkg/ux"
	"github.com/AleutianAI/AleutianSequence/services/classify"
	"github.com/AleutianAI/AleutianSequence/services/classify/bayes"
	"github.com/AleutianAI/AleutianSequence/services/classify/hmm"
)

var (
	classifyBankPath string
	classifySequence string
	classifyStates   bool
	classifyJSON     bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Score a sequence against a bank definition file",
	Long: `Compiles the bank file and runs the full scoring pipeline on the
given sequence: per-class posteriors, the decision, and optionally the
most likely hidden state path of the decided class.

Examples:
  seqctl classify --bank models/gestures.yaml --sequence 0,1,1,2
  seqctl classify --bank models/gestures.yaml --sequence 0,1,1,2 --states
  seqctl classify --bank models/gestures.yaml --sequence 0,1,1,2 --json`,
	RunE: runClassifyCommand,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyBankPath, "bank", "",
		"Path to the bank definition YAML file (required)")
	classifyCmd.Flags().StringVar(&classifySequence, "sequence", "",
		"Comma-separated observation symbols, e.g. 0,1,1,2 (required)")
	classifyCmd.Flags().BoolVar(&classifyStates, "states", false,
		"Also print the Viterbi state path of the decided class")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false,
		"Output as JSON for scripting")
	_ = classifyCmd.MarkFlagRequired("bank")
	_ = classifyCmd.MarkFlagRequired("sequence")
}

func runClassifyCommand(cmd *cobra.Command, args []string) error {
	if classifyJSON {
		ux.SetPlain(true)
	}

	bank, err := classify.LoadBankFile(classifyBankPath)
	if err != nil {
		return err
	}

	sequence, err := parseSequence(classifySequence)
	if err != nil {
		return err
	}

	post, decision, err := bank.Classifier().PosteriorsParallel(context.Background(), sequence)
	if err != nil {
		return err
	}

	result := buildResult(bank, sequence, post, decision)

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(bank, result)
	return nil
}

type classifyResult struct {
	Bank        string    `json:"bank"`
	Decision    int       `json:"decision"`
	Label       string    `json:"label,omitempty"`
	Rejected    bool      `json:"rejected"`
	Probability float64   `json:"probability"`
	Posteriors  []float64 `json:"posteriors"`
	StatePath   []int     `json:"state_path,omitempty"`
}

func buildResult(bank *classify.Bank, sequence []int, post []float64, decision int) classifyResult {
	result := classifyResult{
		Bank:       bank.Name,
		Decision:   decision,
		Rejected:   decision == bayes.Rejected,
		Posteriors: make([]float64, len(post)),
	}
	var total float64
	for i, lp := range post {
		result.Posteriors[i] = math.Exp(lp)
		total += result.Posteriors[i]
	}
	if result.Rejected {
		result.Probability = 1 - total
	} else {
		result.Label = bank.Labels[decision]
		result.Probability = result.Posteriors[decision]
	}

	if classifyStates && !result.Rejected {
		if model, ok := bank.Classifier().Model(decision).(*hmm.Model); ok {
			path, _ := model.MostLikelyStates(sequence)
			result.StatePath = path
		}
	}
	return result
}

func printResult(bank *classify.Bank, result classifyResult) {
	ux.Title("Classification: " + bank.Name)

	if result.Rejected {
		ux.Warning("rejected: no class out-scored the threshold model")
		ux.KeyValue("rejection mass", fmt.Sprintf("%.4f", result.Probability))
	} else {
		ux.Success(fmt.Sprintf("decision: %s (class %d)", result.Label, result.Decision))
		ux.KeyValue("probability", fmt.Sprintf("%.4f", result.Probability))
	}

	for i, p := range result.Posteriors {
		fmt.Printf("  %-12s %s\n", bank.Labels[i], ux.ProbabilityBar(p, 24))
	}

	if len(result.StatePath) > 0 {
		states := make([]string, len(result.StatePath))
		for i, s := range result.StatePath {
			states[i] = strconv.Itoa(s)
		}
		ux.KeyValue("state path", strings.Join(states, " → "))
	}
}

// parseSequence parses "0,1,1,2" into symbol indices.
func parseSequence(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sequence := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid symbol %q in sequence: %w", p, err)
		}
		sequence = append(sequence, v)
	}
	if len(sequence) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}
	return sequence, nil
}
