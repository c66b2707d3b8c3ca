// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hmm

import (
	"math"
	"testing"
)

func validDefinition() Definition {
	return Definition{
		Label:   "circle",
		Initial: []float64{0.6, 0.4},
		Transitions: [][]float64{
			{0.7, 0.3},
			{0.4, 0.6},
		},
		Emissions: [][]float64{
			{0.9, 0.1},
			{0.2, 0.8},
		},
	}
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Definition)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(*Definition) {},
		},
		{
			name:    "missing label",
			mutate:  func(d *Definition) { d.Label = "" },
			wantErr: true,
		},
		{
			name:    "empty initial",
			mutate:  func(d *Definition) { d.Initial = nil },
			wantErr: true,
		},
		{
			name:    "negative initial probability",
			mutate:  func(d *Definition) { d.Initial[0] = -0.1 },
			wantErr: true,
		},
		{
			name:    "non-square transitions",
			mutate:  func(d *Definition) { d.Transitions[0] = []float64{1} },
			wantErr: true,
		},
		{
			name:    "transition row count mismatch",
			mutate:  func(d *Definition) { d.Transitions = d.Transitions[:1] },
			wantErr: true,
		},
		{
			name:    "ragged emissions",
			mutate:  func(d *Definition) { d.Emissions[1] = []float64{1} },
			wantErr: true,
		},
		{
			name:    "negative transition probability",
			mutate:  func(d *Definition) { d.Transitions[1][0] = -0.4 },
			wantErr: true,
		},
		{
			name:    "negative emission probability",
			mutate:  func(d *Definition) { d.Emissions[0][1] = -0.1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(&def)
			err := def.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefinitionCompile(t *testing.T) {
	def := validDefinition()
	m, err := def.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if m.States() != 2 || m.Symbols() != 2 {
		t.Errorf("compiled model shape = (%d states, %d symbols), want (2, 2)", m.States(), m.Symbols())
	}

	// Compiled parameters must reproduce the definition's probabilities.
	want := math.Log(bruteForceLikelihood(def.Initial, def.Transitions, def.Emissions, []int{0, 1, 1}))
	if got := m.LogLikelihood([]int{0, 1, 1}); math.Abs(got-want) > 1e-10 {
		t.Errorf("LogLikelihood = %v, want %v", got, want)
	}
}

func TestDefinitionCompileInvalid(t *testing.T) {
	def := validDefinition()
	def.Transitions = nil
	if _, err := def.Compile(); err == nil {
		t.Fatal("Compile() succeeded with nil transitions")
	}
}
