// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianSequence/services/classify/bayes"
	"github.com/AleutianAI/AleutianSequence/services/classify/hmm"
)

var bankValidate = validator.New()

// BankDefinition is the on-disk form of a model bank.
//
// Description:
//
//	A bank bundles one hidden Markov model per class, an optional
//	threshold model for rejection, and the Bayesian layer's tunables.
//	Banks are authored as YAML files and compiled into an immutable
//	set of models behind a Classifier.
type BankDefinition struct {
	// Name identifies the bank in the registry and in API routes.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Description is free-form operator documentation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Sensitivity scales the threshold model's score. Zero means unset
	// and defaults to 1 (neutral).
	Sensitivity float64 `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty" validate:"omitempty,gt=0"`

	// Priors is the initial class prior distribution. Empty means
	// uniform.
	Priors []float64 `json:"priors,omitempty" yaml:"priors,omitempty" validate:"omitempty,dive,gte=0"`

	// Classes holds one model definition per class, in class-index
	// order.
	Classes []hmm.Definition `json:"classes" yaml:"classes" validate:"required,min=1"`

	// Threshold is the optional rejection model.
	Threshold *hmm.Definition `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// Validate checks the definition for structural errors.
//
// Outputs:
//
//	error - Non-nil describing the first problem found.
func (d *BankDefinition) Validate() error {
	if err := bankValidate.Struct(d); err != nil {
		return fmt.Errorf("bank %q: %w", d.Name, err)
	}
	if len(d.Priors) > 0 && len(d.Priors) != len(d.Classes) {
		return fmt.Errorf("bank %q: %d priors for %d classes: %w",
			d.Name, len(d.Priors), len(d.Classes), bayes.ErrPriorLength)
	}

	symbols := d.Classes[0].Symbols()
	for i := range d.Classes {
		if err := d.Classes[i].Validate(); err != nil {
			return fmt.Errorf("bank %q class %d: %w", d.Name, i, err)
		}
		if d.Classes[i].Symbols() != symbols {
			return fmt.Errorf("bank %q class %d: %d symbols, want %d: %w",
				d.Name, i, d.Classes[i].Symbols(), symbols, ErrAlphabetMismatch)
		}
	}
	if d.Threshold != nil {
		if err := d.Threshold.Validate(); err != nil {
			return fmt.Errorf("bank %q threshold: %w", d.Name, err)
		}
		if d.Threshold.Symbols() != symbols {
			return fmt.Errorf("bank %q threshold: %d symbols, want %d: %w",
				d.Name, d.Threshold.Symbols(), symbols, ErrAlphabetMismatch)
		}
	}
	return nil
}

// Compile validates the definition and builds the runtime Bank.
//
// Outputs:
//
//	*Bank - The compiled bank with its classifier configured.
//	error - Non-nil if validation or model compilation fails.
func (d *BankDefinition) Compile() (*Bank, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	models := make([]bayes.Scorer[int], len(d.Classes))
	labels := make([]string, len(d.Classes))
	for i := range d.Classes {
		m, err := d.Classes[i].Compile()
		if err != nil {
			return nil, fmt.Errorf("bank %q class %d: %w", d.Name, i, err)
		}
		models[i] = m
		labels[i] = d.Classes[i].Label
	}

	clf, err := bayes.New(models)
	if err != nil {
		return nil, fmt.Errorf("bank %q: %w", d.Name, err)
	}
	if len(d.Priors) > 0 {
		if err := clf.SetPriors(d.Priors); err != nil {
			return nil, fmt.Errorf("bank %q: %w", d.Name, err)
		}
	}
	if d.Threshold != nil {
		m, err := d.Threshold.Compile()
		if err != nil {
			return nil, fmt.Errorf("bank %q threshold: %w", d.Name, err)
		}
		clf.SetThreshold(m)
		if d.Sensitivity > 0 {
			clf.SetSensitivity(d.Sensitivity)
		}
	}

	return &Bank{
		Name:       d.Name,
		Labels:     labels,
		Symbols:    d.Classes[0].Symbols(),
		classifier: clf,
	}, nil
}

// Bank is a compiled, registered model bank.
//
// Thread Safety: The classifier's mutable knobs (priors, sensitivity)
// are guarded by the owning Service, not by the Bank itself.
type Bank struct {
	// Name identifies the bank.
	Name string

	// Labels holds the class labels in class-index order.
	Labels []string

	// Symbols is the shared alphabet size of all models in the bank.
	Symbols int

	classifier *bayes.Classifier[int]
}

// Classifier returns the bank's underlying classifier.
func (b *Bank) Classifier() *bayes.Classifier[int] {
	return b.classifier
}

// Summary builds the API-facing description of the bank.
func (b *Bank) Summary() BankSummary {
	return BankSummary{
		Name:         b.Name,
		Classes:      append([]string(nil), b.Labels...),
		Symbols:      b.Symbols,
		Priors:       b.classifier.Priors(),
		HasThreshold: b.classifier.Threshold() != nil,
		Sensitivity:  b.classifier.Sensitivity(),
	}
}

// LoadBankFile reads, validates, and compiles a bank definition from a
// YAML file.
//
// Inputs:
//
//	path - Filesystem path to the YAML definition.
//
// Outputs:
//
//	*Bank - The compiled bank.
//	error - Non-nil if reading, parsing, or compilation fails.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file %s: %w", path, err)
	}

	var def BankDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}

	bank, err := def.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile bank file %s: %w", path, err)
	}
	return bank, nil
}
