// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func TestSetPlainOverridesDetection(t *testing.T) {
	defer plain.Store(0)

	SetPlain(true)
	if !Plain() {
		t.Error("Plain() = false after SetPlain(true)")
	}

	SetPlain(false)
	if Plain() {
		t.Error("Plain() = true after SetPlain(false)")
	}
}

func TestIconRenderPlain(t *testing.T) {
	SetPlain(true)
	defer plain.Store(0)

	if got := IconSuccess.Render(); got != "✓" {
		t.Errorf("IconSuccess.Render() = %q, want bare icon in plain mode", got)
	}
}

func TestProbabilityBar(t *testing.T) {
	SetPlain(true)
	defer plain.Store(0)

	tests := []struct {
		p    float64
		want string
	}{
		{0.9523, "0.9523"},
		{0, "0.0000"},
		{1, "1.0000"},
		{-0.5, "0.0000"}, // clamped
		{1.5, "1.0000"},  // clamped
	}
	for _, tt := range tests {
		if got := ProbabilityBar(tt.p, 20); got != tt.want {
			t.Errorf("ProbabilityBar(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestProbabilityBarStyled(t *testing.T) {
	SetPlain(false)
	defer plain.Store(0)

	out := ProbabilityBar(0.5, 10)
	if !strings.Contains(out, "%") {
		t.Errorf("styled bar missing percentage: %q", out)
	}
}

func TestRepeatChar(t *testing.T) {
	if got := repeatChar('x', 3); got != "xxx" {
		t.Errorf("repeatChar('x', 3) = %q", got)
	}
	if got := repeatChar('x', 0); got != "" {
		t.Errorf("repeatChar('x', 0) = %q", got)
	}
	if got := repeatChar('x', -1); got != "" {
		t.Errorf("repeatChar('x', -1) = %q", got)
	}
}
