// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseObject(t *testing.T) {
	object, err := ParseObject(`{"name": "Skeptic", "role": "red team"}`)
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}
	if object["name"] != "Skeptic" {
		t.Errorf("name = %v, want Skeptic", object["name"])
	}
	if object["role"] != "red team" {
		t.Errorf("role = %v, want red team", object["role"])
	}
}

func TestParseObjectNumbersStayVerbatim(t *testing.T) {
	object, err := ParseObject(`{"weight": 0.50, "rank": 3}`)
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}

	weight, ok := object["weight"].(json.Number)
	if !ok {
		t.Fatalf("weight = %T, want json.Number", object["weight"])
	}
	if weight.String() != "0.50" {
		t.Errorf("weight literal = %q, want 0.50 preserved", weight.String())
	}
}

func TestParseObjectAcceptsJSONC(t *testing.T) {
	object, err := ParseObject(`{
		// the devil's advocate seat
		"name": "Skeptic",
	}`)
	if err != nil {
		t.Fatalf("ParseObject with comments and trailing comma: %v", err)
	}
	if object["name"] != "Skeptic" {
		t.Errorf("name = %v, want Skeptic", object["name"])
	}
}

func TestParseObjectRejectsNonObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1, 2]`},
		{"string", `"hello"`},
		{"number", `5`},
		{"null", `null`},
		{"empty", ``},
		{"malformed", `{"name": }`},
		{"trailing data", `{"a": 1} {"b": 2}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseObject(test.input)
			if err == nil {
				t.Fatalf("ParseObject(%q) succeeded, want *ParseError", test.input)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ParseObject(%q) error = %T, want *ParseError", test.input, err)
			}
		})
	}
}

func TestParseObjectEmptyObject(t *testing.T) {
	object, err := ParseObject(`{}`)
	if err != nil {
		t.Fatalf("ParseObject({}): %v", err)
	}
	if len(object) != 0 {
		t.Errorf("object = %v, want empty", object)
	}
}
