// Package forms holds the text-input dialogs shown inside modals. A form only
// collects input; validation and submission belong to the caller, which
// lets a failed request leave every field exactly as the user typed it.
package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label string
	input textinput.Model
}

// Form is a titled stack of labelled inputs. Enter in any field submits,
// tab and shift+tab move between fields, esc cancels.
type Form struct {
	title    string
	subtitle string
	help     string
	submit   string
	fields   []field
	focus    int
	pending  bool
}

// Field describes one input of a form.
type Field struct {
	Label       string
	Placeholder string
	CharLimit   int
}

// New builds a form with the given fields. The first field has focus.
func New(title, submitLabel string, fields ...Field) *Form {
	f := &Form{
		title:  title,
		submit: submitLabel,
		help:   "Enter to " + strings.ToLower(submitLabel) + " · Tab to switch field · Esc to close",
	}
	for _, def := range fields {
		ti := textinput.New()
		ti.Placeholder = def.Placeholder
		ti.CharLimit = def.CharLimit
		if ti.CharLimit == 0 {
			ti.CharLimit = 64
		}
		ti.Prompt = ""
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.fields = append(f.fields, field{label: def.Label, input: ti})
	}
	if len(f.fields) == 1 {
		f.help = "Enter to " + strings.ToLower(submitLabel) + " · Esc to close"
	}
	f.setFocus(0)
	return f
}

// NewWorkspaceForm returns the create-workspace dialog: a display name and a
// URL slug.
func NewWorkspaceForm() *Form {
	return New("Create Workspace", "Create",
		Field{Label: "Workspace name", Placeholder: "My team"},
		Field{Label: "Workspace URL", Placeholder: "my-team"},
	)
}

// NewChannelForm returns the create-channel dialog.
func NewChannelForm() *Form {
	return New("Create Channel", "Create", Field{Label: "Channel name", Placeholder: "general"})
}

// NewInviteWorkspaceForm returns the dialog that invites a member into the
// current workspace.
func NewInviteWorkspaceForm() *Form {
	return New("Invite to Workspace", "Invite", Field{Label: "Email", Placeholder: "someone@example.com", CharLimit: 254})
}

// NewInviteChannelForm returns the dialog that invites a member into the
// selected channel.
func NewInviteChannelForm() *Form {
	return New("Invite to Channel", "Invite", Field{Label: "Email", Placeholder: "someone@example.com", CharLimit: 254})
}

func (f *Form) Title() string    { return f.title }
func (f *Form) Subtitle() string { return f.subtitle }
func (f *Form) Help() string     { return f.help }
func (f *Form) Pending() bool    { return f.pending }
func (f *Form) Focused() int     { return f.focus }
func (f *Form) Len() int         { return len(f.fields) }

// SetSubtitle sets the context line drawn under the title, e.g. the target
// workspace.
func (f *Form) SetSubtitle(s string) { f.subtitle = s }

// SetPending marks the form as waiting for its request. A pending form
// ignores edits and further submits.
func (f *Form) SetPending(pending bool) { f.pending = pending }

// Value returns the trimmed value of field i.
func (f *Form) Value(i int) string {
	return strings.TrimSpace(f.Raw(i))
}

// Raw returns field i exactly as typed.
func (f *Form) Raw(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].input.Value()
}

// Values returns every field value, trimmed.
func (f *Form) Values() []string {
	out := make([]string, len(f.fields))
	for i := range f.fields {
		out[i] = f.Value(i)
	}
	return out
}

// SetValue replaces the raw value of field i.
func (f *Form) SetValue(i int, value string) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields[i].input.SetValue(value)
}

// Reset clears every field and returns focus to the first one.
func (f *Form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.pending = false
	f.setFocus(0)
}

// Update routes msg to the focused field. submit is set when the user asked
// to submit; cancel when the user asked to close the dialog.
func (f *Form) Update(msg tea.Msg) (cmd tea.Cmd, submit bool, cancel bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false, false
	}
	switch key.Type {
	case tea.KeyEsc:
		return nil, false, true
	case tea.KeyEnter:
		if f.pending {
			return nil, false, false
		}
		return nil, true, false
	case tea.KeyTab, tea.KeyDown:
		f.setFocus(f.focus + 1)
		return nil, false, false
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus(f.focus - 1)
		return nil, false, false
	case tea.KeyCtrlU:
		if !f.pending && len(f.fields) > 0 {
			f.fields[f.focus].input.SetValue("")
		}
		return nil, false, false
	}
	if f.pending || len(f.fields) == 0 {
		return nil, false, false
	}
	var c tea.Cmd
	f.fields[f.focus].input, c = f.fields[f.focus].input.Update(msg)
	return c, false, false
}

// View renders the labelled fields, one per line pair.
func (f *Form) View() string {
	lines := make([]string, 0, len(f.fields)*2)
	for i, fld := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		lines = append(lines, marker+fld.label, "  "+fld.input.View())
	}
	return strings.Join(lines, "\n")
}

func (f *Form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	n := len(f.fields)
	i = ((i % n) + n) % n
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
}
