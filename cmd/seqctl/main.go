// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command seqctl inspects and scores model banks from the command line.
//
// seqctl compiles bank definition files locally, so it works without a
// running seqd server:
//
//	seqctl inspect --bank models/gestures.yaml
//	seqctl classify --bank models/gestures.yaml --sequence 0,1,1,2
//	seqctl classify --bank models/gestures.yaml --sequence 0,1,1,2 --states
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSequence/pkg/ux"
)

var rootCmd = &cobra.Command{
	Use:   "seqctl",
	Short: "Inspect and score Aleutian Sequence model banks",
	Long: `seqctl works directly on bank definition YAML files.

It compiles the per-class hidden Markov models locally and runs the
same scoring pipeline the seqd server uses, which makes it useful for
validating bank files before deployment and for debugging decisions.`,
	SilenceUsage: true,
}

var plainOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Disable styled output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if plainOutput {
			ux.SetPlain(true)
		}
	}

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
