// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

// ParseError reports malformed object text passed on the command line
// as a persona spec or patch. The parse runs before any document is
// loaded or mutated, so a ParseError never leaves partial state behind.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing object: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseObject parses authored JSON text into an object. The input is
// accepted as JSONC (comments and trailing commas are stripped) before
// strict decoding, matching how authored definitions are handled
// elsewhere in this codebase. Numbers decode as [json.Number] so that
// values survive a write-read cycle without reformatting.
//
// Anything that is not a single JSON object — arrays, scalars, null,
// trailing data — is a *ParseError.
func ParseObject(text string) (map[string]any, error) {
	clean := jsonc.ToJSON([]byte(text))

	decoder := json.NewDecoder(strings.NewReader(string(clean)))
	decoder.UseNumber()

	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return nil, &ParseError{Err: err}
	}
	if decoder.More() {
		return nil, &ParseError{Err: errors.New("trailing data after object")}
	}
	if object == nil {
		return nil, &ParseError{Err: errors.New("null is not an object")}
	}
	return object, nil
}
