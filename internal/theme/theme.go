// Package theme holds the Lip Gloss styles of the client. Colours follow the
// aubergine sidebar look of the web client, mapped onto the 256-colour
// palette.
package theme

import "github.com/charmbracelet/lipgloss"

const (
	aubergine = lipgloss.Color("54")
	lilac     = lipgloss.Color("99")
	slate     = lipgloss.Color("60")
	white     = lipgloss.Color("255")
	black     = lipgloss.Color("0")
	text      = lipgloss.Color("249")
	subtle    = lipgloss.Color("245")
	faint     = lipgloss.Color("241")
	rule      = lipgloss.Color("238")
	red       = lipgloss.Color("196")
	green     = lipgloss.Color("42")
	mint      = lipgloss.Color("114")
	blue      = lipgloss.Color("33")
)

// Styles is the set of styles the views draw with. Fields are pointers so a
// caller can tweak a style in place for every view at once.
type Styles struct {
	Header      *lipgloss.Style
	HeaderMeta  *lipgloss.Style
	Footer      *lipgloss.Style
	Status      *lipgloss.Style
	Info        *lipgloss.Style
	Error       *lipgloss.Style
	Muted       *lipgloss.Style
	Pending     *lipgloss.Style
	Badge       *lipgloss.Style
	ActiveBadge *lipgloss.Style

	Column             *lipgloss.Style
	FocusedColumn      *lipgloss.Style
	ColumnTitle        *lipgloss.Style
	FocusedColumnTitle *lipgloss.Style

	Item                  *lipgloss.Style
	ActiveItem            *lipgloss.Style
	SelectedItem          *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style

	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style

	Modal      *lipgloss.Style
	ModalTitle *lipgloss.Style
	ModalHelp  *lipgloss.Style
	Menu       *lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func column(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(border).
		Padding(0, 1)
}

func box(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

var defaultStyles = Styles{
	Header:      ptr(fg(white).Background(aubergine).Bold(true).Padding(0, 1)),
	HeaderMeta:  ptr(fg(text).Background(aubergine).Padding(0, 1)),
	Footer:      ptr(fg(subtle)),
	Status:      ptr(fg(green)),
	Info:        ptr(fg(mint)),
	Error:       ptr(fg(red).Bold(true)),
	Muted:       ptr(fg(faint)),
	Pending:     ptr(fg(blue).Italic(true)),
	Badge:       ptr(fg(white).Background(slate).Bold(true).Padding(0, 1)),
	ActiveBadge: ptr(fg(black).Background(white).Bold(true).Padding(0, 1)),

	Column:             ptr(column(rule)),
	FocusedColumn:      ptr(column(lilac)),
	ColumnTitle:        ptr(fg(subtle).Bold(true)),
	FocusedColumnTitle: ptr(fg(white).Bold(true).Underline(true)),

	Item:                  ptr(fg(text)),
	ActiveItem:            ptr(fg(white).Bold(true)),
	SelectedItem:          ptr(fg(white).Background(rule).Bold(true)),
	SelectedItemIndicator: ptr(fg(lilac).Background(rule)),

	Filter:            ptr(fg(text)),
	FilterPrompt:      ptr(fg(lilac).Bold(true)),
	FilterPlaceholder: ptr(fg(faint)),
	Cursor:            ptr(fg(black).Background(lilac)),

	Modal:      ptr(box(lilac).Padding(1, 2)),
	ModalTitle: ptr(fg(white).Bold(true)),
	ModalHelp:  ptr(fg(faint)),
	Menu:       ptr(box(lipgloss.Color("240")).Padding(0, 1)),
}

// Default returns the shared style set.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
