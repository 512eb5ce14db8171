package forms

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(f *Form, text string) {
	for _, r := range text {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestWorkspaceFormCollectsBothFields(t *testing.T) {
	f := NewWorkspaceForm()
	typeText(f, "Team")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "team")

	values := f.Values()
	if values[0] != "Team" || values[1] != "team" {
		t.Fatalf("unexpected values %v", values)
	}
	if f.Focused() != 1 {
		t.Fatalf("expected second field focused, got %d", f.Focused())
	}
	_, submit, cancel := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !submit || cancel {
		t.Fatalf("expected submit on enter")
	}
}

func TestFocusWraps(t *testing.T) {
	f := NewWorkspaceForm()
	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.Focused() != 1 {
		t.Fatalf("expected wrap to last field, got %d", f.Focused())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	if f.Focused() != 0 {
		t.Fatalf("expected wrap to first field, got %d", f.Focused())
	}
}

func TestEscCancels(t *testing.T) {
	f := NewChannelForm()
	typeText(f, "general")
	_, submit, cancel := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if submit || !cancel {
		t.Fatalf("expected cancel on esc")
	}
	if f.Value(0) != "general" {
		t.Fatalf("cancel must not clear input, got %q", f.Value(0))
	}
}

func TestPendingIgnoresEditsAndSubmits(t *testing.T) {
	f := NewChannelForm()
	typeText(f, "dev")
	f.SetPending(true)
	typeText(f, "ops")
	_, submit, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit {
		t.Fatalf("pending form must not submit again")
	}
	if f.Value(0) != "dev" {
		t.Fatalf("pending form must not accept edits, got %q", f.Value(0))
	}
}

func TestResetClearsFields(t *testing.T) {
	f := NewWorkspaceForm()
	typeText(f, "Team")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "team")
	f.SetPending(true)
	f.Reset()
	if f.Value(0) != "" || f.Value(1) != "" || f.Pending() || f.Focused() != 0 {
		t.Fatalf("expected reset form, got %v pending=%v focus=%d", f.Values(), f.Pending(), f.Focused())
	}
}

func TestCtrlUClearsFocusedField(t *testing.T) {
	f := NewInviteWorkspaceForm()
	typeText(f, "kim@example.com")
	f.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if f.Value(0) != "" {
		t.Fatalf("expected cleared field, got %q", f.Value(0))
	}
	if f.Value(3) != "" {
		t.Fatalf("out of range values are empty")
	}
}

func TestRawKeepsSurroundingSpaces(t *testing.T) {
	f := NewChannelForm()
	f.SetValue(0, "  dev ")
	if f.Raw(0) != "  dev " || f.Value(0) != "dev" {
		t.Fatalf("expected raw %q and trimmed %q, got %q and %q", "  dev ", "dev", f.Raw(0), f.Value(0))
	}
	if f.Raw(5) != "" {
		t.Fatalf("out of range values are empty")
	}
}
