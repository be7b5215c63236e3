// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

func TestPersonaMarkdownConventionalOrder(t *testing.T) {
	persona := roster.Persona{
		"name":        "Architect",
		"role":        "boundary decisions",
		"ledger":      map[string]any{"rotations_survived": "4"},
		"blind_spots": []any{"delivery pressure"},
		"mandate":     "Own the long-term shape of the system.",
		"trust_model": "Trust but verify interfaces.",
	}

	result := personaMarkdown(persona)

	mandateIndex := strings.Index(result, "### Mandate")
	trustIndex := strings.Index(result, "### Trust model")
	blindIndex := strings.Index(result, "### Blind spots")
	ledgerIndex := strings.Index(result, "### Ledger")

	for label, index := range map[string]int{
		"Mandate": mandateIndex, "Trust model": trustIndex,
		"Blind spots": blindIndex, "Ledger": ledgerIndex,
	} {
		if index < 0 {
			t.Fatalf("missing %s section:\n%s", label, result)
		}
	}

	if !(mandateIndex < trustIndex && trustIndex < blindIndex && blindIndex < ledgerIndex) {
		t.Errorf("expected conventional field order mandate < trust_model < blind_spots < ledger, got:\n%s", result)
	}
}

func TestPersonaMarkdownOmitsNameAndRole(t *testing.T) {
	persona := roster.Persona{
		"name":    "Architect",
		"role":    "boundary decisions",
		"mandate": "Own the shape.",
	}

	result := personaMarkdown(persona)

	if strings.Contains(result, "### Name") {
		t.Error("name should render in the header, not the body")
	}
	if strings.Contains(result, "### Role") {
		t.Error("role should render in the header, not the body")
	}
	if strings.Contains(result, "boundary decisions") {
		t.Errorf("role text leaked into body:\n%s", result)
	}
}

func TestPersonaMarkdownExtrasSorted(t *testing.T) {
	persona := roster.Persona{
		"name":     "Architect",
		"mandate":  "Own the shape.",
		"zeal":     "high",
		"appetite": "low",
	}

	result := personaMarkdown(persona)

	appetiteIndex := strings.Index(result, "### Appetite")
	zealIndex := strings.Index(result, "### Zeal")
	mandateIndex := strings.Index(result, "### Mandate")

	if appetiteIndex < 0 || zealIndex < 0 {
		t.Fatalf("missing extra field sections:\n%s", result)
	}
	if mandateIndex > appetiteIndex {
		t.Error("conventional fields should render before extras")
	}
	if appetiteIndex > zealIndex {
		t.Error("extra fields should render alphabetically")
	}
}

func TestPersonaMarkdownNoDetailFields(t *testing.T) {
	persona := roster.Persona{"name": "Ghost", "role": "placeholder"}

	result := personaMarkdown(persona)
	if result != "*No detail fields recorded.*" {
		t.Errorf("expected placeholder for empty detail, got %q", result)
	}
}

func TestPersonaMarkdownListField(t *testing.T) {
	persona := roster.Persona{
		"name":          "Verifier",
		"key_questions": []any{"What would falsify this?", "Where is the trace?"},
	}

	result := personaMarkdown(persona)

	if !strings.Contains(result, "### Key questions") {
		t.Fatalf("missing list section:\n%s", result)
	}
	if !strings.Contains(result, "- What would falsify this?") {
		t.Error("missing first bullet")
	}
	if !strings.Contains(result, "- Where is the trace?") {
		t.Error("missing second bullet")
	}
}

func TestPersonaMarkdownEmptyListField(t *testing.T) {
	persona := roster.Persona{
		"name":         "Verifier",
		"always_flags": []any{},
	}

	result := personaMarkdown(persona)
	if !strings.Contains(result, "*(empty)*") {
		t.Errorf("expected empty-list marker, got:\n%s", result)
	}
}

func TestPersonaMarkdownLedger(t *testing.T) {
	persona := roster.Persona{
		"name": "Historian",
		"ledger": map[string]any{
			"wins":         json.Number("3"),
			"last_updated": "2026-08-01",
		},
	}

	result := personaMarkdown(persona)

	if !strings.Contains(result, "- **Last updated:** 2026-08-01") {
		t.Errorf("missing ledger entry, got:\n%s", result)
	}
	if !strings.Contains(result, "- **Wins:** 3") {
		t.Errorf("missing numeric ledger entry, got:\n%s", result)
	}
	// Map keys render sorted.
	if strings.Index(result, "Last updated") > strings.Index(result, "Wins") {
		t.Error("expected ledger keys in alphabetical order")
	}
}

func TestFieldLabel(t *testing.T) {
	cases := map[string]string{
		"mandate":       "Mandate",
		"key_questions": "Key questions",
		"always_flags":  "Always flags",
		"x":             "X",
		"":              "",
	}
	for input, want := range cases {
		if got := fieldLabel(input); got != want {
			t.Errorf("fieldLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDetailPaneEmptyView(t *testing.T) {
	pane := NewDetailPane(DefaultTheme)
	pane.SetSize(40, 12)

	view := ansi.Strip(pane.View(false))
	if !strings.Contains(view, "Select a persona to view details") {
		t.Errorf("expected empty-state prompt, got:\n%s", view)
	}
}

func TestDetailPaneShowsPersona(t *testing.T) {
	pane := NewDetailPane(DefaultTheme)
	pane.SetSize(60, 20)
	pane.SetContent(roster.Persona{
		"name":    "Architect",
		"role":    "boundary decisions",
		"mandate": "Own the long-term shape.",
	}, 1)

	view := ansi.Strip(pane.View(true))

	if !strings.Contains(view, "Architect") {
		t.Error("missing persona name in header")
	}
	if !strings.Contains(view, "boundary decisions") {
		t.Error("missing persona role in header")
	}
	if !strings.Contains(view, "Mandate") {
		t.Error("missing mandate section in body")
	}
	if !strings.Contains(view, "long-term shape.") {
		t.Errorf("missing mandate text in body, got:\n%s", view)
	}
}

func TestDetailPaneUnnamedFallback(t *testing.T) {
	pane := NewDetailPane(DefaultTheme)
	pane.SetSize(40, 12)
	pane.SetContent(roster.Persona{"mandate": "Exist."}, 1)

	view := ansi.Strip(pane.View(false))
	if !strings.Contains(view, "(unnamed)") {
		t.Errorf("expected unnamed fallback in header, got:\n%s", view)
	}
}
