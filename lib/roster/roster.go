// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster defines the in-memory roster model: a steward meta
// persona, an ordered list of active personas, rotation history, and
// open tensions.
//
// Personas are open maps rather than closed structs: patches applied
// through the update commands may introduce arbitrary keys, and the
// document codec round-trips whatever keys are present. The accessor
// methods cover the conventional fields; everything else travels
// untouched.
package roster

import "fmt"

// MinPersonas is the smallest roster that passes validation. Rosters
// below this size are considered insufficient for non-atomic tasks.
const MinPersonas = 3

// Meta holds the steward persona that governs the roster itself. Its
// conventional fields are name, mandate, rotation_rules, and checks.
type Meta map[string]any

// Persona is one active roster entry. Conventional fields: name, role,
// mandate, trust_model, key_questions, always_flags, blind_spots, and
// a nested ledger object.
type Persona map[string]any

// Tension is an open tradeoff recorded against the roster. Conventional
// fields: description, options, resolution, residual_risk.
type Tension map[string]any

// Roster is the complete persistent record. Field order here fixes the
// top-level key order of the embedded JSON block.
type Roster struct {
	Meta            Meta      `json:"meta"`
	Personas        []Persona `json:"personas"`
	RotationHistory []string  `json:"rotation_history"`
	Tensions        []Tension `json:"tensions"`
}

// Default returns the scaffold roster used when no document exists yet:
// a pre-filled steward and empty sequences. The scaffold is a valid
// roster and is immediately usable by every command.
func Default() *Roster {
	return &Roster{
		Meta: Meta{
			"name":           "Roster Steward",
			"mandate":        "Govern roster stability, decide when to rotate personas, and enforce protocol quality gates.",
			"rotation_rules": "Max 1 swap per user turn; default is stability; rotate on domain shift or repeated failure modes.",
			"checks":         "Calibration (atomic/compound/systemic), utilization (no theater), decision trace required, red-team required when warranted.",
		},
		Personas:        []Persona{},
		RotationHistory: []string{},
		Tensions:        []Tension{},
	}
}

// Name returns the persona's name field, or "" when the field is
// missing or not a string. Lookups compare names as strings only, so
// a persona whose name is a number can never be addressed by the
// update commands.
func (p Persona) Name() string {
	name, ok := p["name"].(string)
	if !ok {
		return ""
	}
	return name
}

// Merge applies patch key-wise onto the persona: existing keys are
// overwritten whole, new keys are added. One level only; nested
// objects in the patch replace their counterparts entirely.
func (p Persona) Merge(patch map[string]any) {
	for key, value := range patch {
		p[key] = value
	}
}

// Find returns the first persona whose name equals name, in sequence
// order. Duplicate names are permitted by Add, so later entries with
// the same name are never reachable through Find.
func (r *Roster) Find(name string) (Persona, bool) {
	for _, persona := range r.Personas {
		if candidate, ok := persona["name"].(string); ok && candidate == name {
			return persona, true
		}
	}
	return nil, false
}

// Add appends a persona to the end of the sequence. No uniqueness
// check is performed against existing names.
func (r *Roster) Add(spec map[string]any) {
	r.Personas = append(r.Personas, Persona(spec))
}

// UpdatePersona shallow-merges patch into the first persona named
// name. Returns false when no persona matches; the roster is left
// untouched in that case.
func (r *Roster) UpdatePersona(name string, patch map[string]any) bool {
	persona, ok := r.Find(name)
	if !ok {
		return false
	}
	persona.Merge(patch)
	return true
}

// UpdateLedger shallow-merges patch into the ledger sub-object of the
// first persona named name, creating the ledger if the persona has
// none (or has a non-object in its place). Returns false when no
// persona matches.
func (r *Roster) UpdateLedger(name string, patch map[string]any) bool {
	persona, ok := r.Find(name)
	if !ok {
		return false
	}
	ledger, ok := persona["ledger"].(map[string]any)
	if !ok {
		ledger = map[string]any{}
		persona["ledger"] = ledger
	}
	for key, value := range patch {
		ledger[key] = value
	}
	return true
}

// Validate checks the minimum-size invariant. Only persona count is
// validated; the "4–7 total including Meta" figure in the document
// heading is guidance, not a rule.
func (r *Roster) Validate() error {
	if len(r.Personas) < MinPersonas {
		return fmt.Errorf("at least %d personas required for non-atomic tasks, have %d",
			MinPersonas, len(r.Personas))
	}
	return nil
}

// DuplicateNames returns persona names that appear more than once, in
// first-appearance order. Duplicates are legal but mean the update
// commands can only ever reach the first entry of each name.
func (r *Roster) DuplicateNames() []string {
	counts := make(map[string]int, len(r.Personas))
	var duplicates []string
	for _, persona := range r.Personas {
		name, ok := persona["name"].(string)
		if !ok {
			continue
		}
		if counts[name] == 1 {
			duplicates = append(duplicates, name)
		}
		counts[name]++
	}
	return duplicates
}
