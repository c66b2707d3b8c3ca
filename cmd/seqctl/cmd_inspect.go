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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSequence/pkg/ux"
	"github.com/AleutianAI/AleutianSequence/services/classify"
)

var (
	inspectBankPath string
	inspectJSON     bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate and describe a bank definition file",
	Long: `Compiles the bank file and prints its shape: class labels, alphabet
size, priors, and whether a rejection threshold model is configured.
A non-zero exit code means the file failed validation.

Examples:
  seqctl inspect --bank models/gestures.yaml
  seqctl inspect --bank models/gestures.yaml --json`,
	RunE: runInspectCommand,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectBankPath, "bank", "",
		"Path to the bank definition YAML file (required)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false,
		"Output as JSON for scripting")
	_ = inspectCmd.MarkFlagRequired("bank")
}

func runInspectCommand(cmd *cobra.Command, args []string) error {
	bank, err := classify.LoadBankFile(inspectBankPath)
	if err != nil {
		return err
	}
	summary := bank.Summary()

	if inspectJSON {
		ux.SetPlain(true)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	ux.Title("Bank: " + summary.Name)
	ux.Success("valid")
	ux.KeyValue("classes", strings.Join(summary.Classes, ", "))
	ux.KeyValue("alphabet size", summary.Symbols)
	ux.KeyValue("priors", formatPriors(summary.Priors))
	if summary.HasThreshold {
		ux.KeyValue("threshold", fmt.Sprintf("enabled (sensitivity %g)", summary.Sensitivity))
	} else {
		ux.KeyValue("threshold", "none")
	}
	return nil
}

func formatPriors(priors []float64) string {
	parts := make([]string, len(priors))
	for i, p := range priors {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
