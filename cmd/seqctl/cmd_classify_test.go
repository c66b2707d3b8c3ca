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
	"reflect"
	"testing"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "simple", input: "0,1,1,2", want: []int{0, 1, 1, 2}},
		{name: "spaces", input: " 0 , 1 ,2", want: []int{0, 1, 2}},
		{name: "single", input: "5", want: []int{5}},
		{name: "trailing comma", input: "0,1,", want: []int{0, 1}},
		{name: "empty", input: "", wantErr: true},
		{name: "only commas", input: ",,", wantErr: true},
		{name: "non-numeric", input: "0,x,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSequence(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSequence(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSequence(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSequence(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
