// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hmm

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// defValidate validates model definitions loaded from configuration.
var defValidate = validator.New()

// Definition is the serializable form of a Model, as it appears in bank
// YAML files.
//
// Probabilities are linear-space; they are converted to log space when the
// definition is compiled. A zero probability is legal and marks the
// transition or emission as impossible.
type Definition struct {
	// Label is the human-readable class name for this model.
	Label string `json:"label" yaml:"label" validate:"required"`

	// Initial is the initial state distribution.
	Initial []float64 `json:"initial" yaml:"initial" validate:"required,min=1,dive,gte=0"`

	// Transitions is the square state transition matrix.
	Transitions [][]float64 `json:"transitions" yaml:"transitions" validate:"required,min=1"`

	// Emissions is the per-state emission matrix over the shared alphabet.
	Emissions [][]float64 `json:"emissions" yaml:"emissions" validate:"required,min=1"`
}

// Symbols returns the alphabet size the definition emits over, or 0 when
// the emission matrix is empty.
func (d *Definition) Symbols() int {
	if len(d.Emissions) == 0 {
		return 0
	}
	return len(d.Emissions[0])
}

// Validate checks the definition's tags and matrix shapes.
//
// Outputs:
//
//	error - Non-nil when a tag fails or when the transition matrix is not
//	        square, the emission rows are ragged, or any probability is
//	        negative.
func (d *Definition) Validate() error {
	if err := defValidate.Struct(d); err != nil {
		return fmt.Errorf("model %q: %w", d.Label, err)
	}

	states := len(d.Initial)
	if len(d.Transitions) != states {
		return fmt.Errorf("model %q: %w: %d transition rows for %d states",
			d.Label, ErrMatrixShape, len(d.Transitions), states)
	}
	if len(d.Emissions) != states {
		return fmt.Errorf("model %q: %w: %d emission rows for %d states",
			d.Label, ErrMatrixShape, len(d.Emissions), states)
	}

	symbols := len(d.Emissions[0])
	if symbols == 0 {
		return fmt.Errorf("model %q: %w", d.Label, ErrNoSymbols)
	}

	for i := 0; i < states; i++ {
		if len(d.Transitions[i]) != states {
			return fmt.Errorf("model %q: %w: transition row %d has %d columns",
				d.Label, ErrMatrixShape, i, len(d.Transitions[i]))
		}
		if len(d.Emissions[i]) != symbols {
			return fmt.Errorf("model %q: %w: emission row %d has %d columns",
				d.Label, ErrMatrixShape, i, len(d.Emissions[i]))
		}
		for j, p := range d.Transitions[i] {
			if p < 0 {
				return fmt.Errorf("model %q: transition[%d][%d] is negative", d.Label, i, j)
			}
		}
		for j, p := range d.Emissions[i] {
			if p < 0 {
				return fmt.Errorf("model %q: emission[%d][%d] is negative", d.Label, i, j)
			}
		}
	}

	return nil
}

// Compile validates the definition and builds the runtime model.
func (d *Definition) Compile() (*Model, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return NewModel(d.Initial, d.Transitions, d.Emissions)
}
