// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package rosterdoc encodes and decodes the roster document: a single
// markdown file that is both the human-readable view of the roster and
// its machine-readable store.
//
// Only the JSON block between the ROSTER_JSON markers is authoritative.
// The prose sections are a deterministic projection of the roster value
// and are regenerated on every save; hand edits to the prose do not
// survive the next mutating command.
package rosterdoc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

// Markers delimiting the embedded JSON block. Decode extracts the text
// strictly between the first open marker and the next close marker.
const (
	openMarker  = "<!-- ROSTER_JSON:"
	closeMarker = "-->"
)

// DecodeError reports an embedded block that exists but does not hold
// a valid roster. A document without any block is not an error; it
// decodes to nil.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding embedded roster block: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode extracts the roster from document text. It returns (nil, nil)
// when there is nothing to decode: empty input, no embedded block, or
// a block holding null or an empty object. Callers treat nil as "no
// record" and construct the default scaffold themselves.
//
// The close marker is optional; when missing, the block runs to the
// end of the document. Numbers decode as [json.Number] so that values
// re-encode with their original literals.
func Decode(document []byte) (*roster.Roster, error) {
	_, rest, found := bytes.Cut(document, []byte(openMarker))
	if !found {
		return nil, nil
	}
	block, _, _ := bytes.Cut(rest, []byte(closeMarker))

	// Probe the block's top-level shape first. This rejects invalid
	// JSON and non-object values, and distinguishes "empty record"
	// (null, {}) from a populated one.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(block, &probe); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(probe) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(block))
	decoder.UseNumber()
	var r roster.Roster
	if err := decoder.Decode(&r); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &r, nil
}

// Encode renders the roster as document text: the prose projection
// followed by the embedded JSON block. The output is deterministic for
// a given roster value, so re-encoding an unchanged roster reproduces
// the document byte for byte.
//
// Every labeled field is always rendered; missing fields appear as
// empty strings rather than omitted lines.
func Encode(r *roster.Roster) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString("# Persona Roster (Persistent)\n\n")

	b.WriteString("## Meta Persona\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", text(r.Meta["name"]))
	fmt.Fprintf(&b, "- **Mandate:** %s\n", text(r.Meta["mandate"]))
	fmt.Fprintf(&b, "- **Rotation Rules:** %s\n", text(r.Meta["rotation_rules"]))
	fmt.Fprintf(&b, "- **Checks:** %s\n\n", text(r.Meta["checks"]))

	b.WriteString("## Active Personas (4–7 total including Meta)\n\n")
	for i, persona := range r.Personas {
		fmt.Fprintf(&b, "### %d) %s\n", i+1, text(persona["name"]))
		fmt.Fprintf(&b, "- **Role:** %s\n", text(persona["role"]))
		fmt.Fprintf(&b, "- **Mandate:** %s\n", text(persona["mandate"]))
		fmt.Fprintf(&b, "- **Trust Model:** %s\n", text(persona["trust_model"]))
		b.WriteString("- **Key Questions:**\n")
		for _, question := range items(persona["key_questions"]) {
			fmt.Fprintf(&b, "  - %s\n", question)
		}
		b.WriteString("- **Always-Flags:**\n")
		for _, flag := range items(persona["always_flags"]) {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
		fmt.Fprintf(&b, "- **Blind Spots:** %s\n", text(persona["blind_spots"]))
		ledger := object(persona["ledger"])
		b.WriteString("- **Ledger:**\n")
		fmt.Fprintf(&b, "  - **Current stance:** %s\n", text(ledger["current_stance"]))
		fmt.Fprintf(&b, "  - **Warnings:** %s\n", text(ledger["warnings"]))
		fmt.Fprintf(&b, "  - **Open questions:** %s\n", text(ledger["open_questions"]))
		fmt.Fprintf(&b, "  - **Last updated:** %s\n\n", text(ledger["last_updated"]))
	}

	b.WriteString("## Rotation History\n")
	for _, entry := range r.RotationHistory {
		fmt.Fprintf(&b, "- %s\n", entry)
	}
	b.WriteString("\n")

	b.WriteString("## Open Tensions / Tradeoffs\n")
	for _, tension := range r.Tensions {
		fmt.Fprintf(&b, "- Tension: %s\n", text(tension["description"]))
		fmt.Fprintf(&b, "  - Options: %s\n", text(tension["options"]))
		fmt.Fprintf(&b, "  - Current resolution: %s\n", text(tension["resolution"]))
		fmt.Fprintf(&b, "  - Residual risk: %s\n", text(tension["residual_risk"]))
	}

	// MarshalIndent escapes <, >, and & inside string values, so the
	// serialized block can never contain a literal "-->" that would
	// truncate the comment envelope on the next decode.
	blob, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling roster block: %w", err)
	}
	fmt.Fprintf(&b, "\n%s\n%s\n%s", openMarker, blob, closeMarker)

	return b.Bytes(), nil
}

// Prose returns the document text with the embedded JSON block cut
// out. The terminal markdown renderer drops HTML comments on its own;
// this exists for plain-text output, which would otherwise print the
// raw record. The close marker is optional, matching Decode: without
// one the block runs to the end of the document.
func Prose(document []byte) []byte {
	before, rest, found := bytes.Cut(document, []byte(openMarker))
	if !found {
		return document
	}

	var b bytes.Buffer
	b.Write(bytes.TrimRight(before, "\n"))

	if _, after, closed := bytes.Cut(rest, []byte(closeMarker)); closed {
		after = bytes.TrimLeft(after, "\n")
		if len(after) > 0 {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.Write(after)
		}
	}

	if b.Len() > 0 && !bytes.HasSuffix(b.Bytes(), []byte("\n")) {
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// text renders a field value as it appears on a labeled document line:
// strings verbatim, absent values as "", other JSON scalars via their
// literal form.
func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// items renders a list field as bullet lines. Non-list values render
// as no items at all; the list header is still emitted by the caller.
func items(value any) []string {
	switch v := value.(type) {
	case []any:
		lines := make([]string, len(v))
		for i, item := range v {
			lines[i] = text(item)
		}
		return lines
	case []string:
		return v
	default:
		return nil
	}
}

// object returns the value as a map, or nil for anything else. Reads
// from the nil map yield nil, which text renders as "".
func object(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}
