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

import "errors"

// Sentinel errors for the classification service.
var (
	// ErrBankNotFound indicates a request for an unregistered model bank.
	ErrBankNotFound = errors.New("model bank not found")

	// ErrClassOutOfRange indicates a class index outside [0, classes).
	ErrClassOutOfRange = errors.New("class index out of range")

	// ErrInvalidSensitivity indicates a non-positive sensitivity value.
	ErrInvalidSensitivity = errors.New("sensitivity must be positive")

	// ErrNoThreshold indicates a sensitivity update on a bank without a
	// threshold model.
	ErrNoThreshold = errors.New("bank has no threshold model")

	// ErrAlphabetMismatch indicates class models with different alphabet
	// sizes in a single bank.
	ErrAlphabetMismatch = errors.New("all models in a bank must share one alphabet")
)
