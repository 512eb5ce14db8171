package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/sleact-tui/internal/format/table"
	"github.com/atomicstack/sleact-tui/internal/modal"
)

const (
	defaultWidth     = 100
	workspaceColumnW = 22
	channelColumnW   = 26
	detailColumnMinW = 24
	footerText       = "tab focus  ↑/↓ move  enter select  ctrl+n workspace  ctrl+t channel  ctrl+p account  ctrl+g menu  esc close  ctrl+c quit"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.users.SignedOut() {
		return m.viewSignedOut()
	}
	if !m.users.Resolved() {
		return m.viewConnecting()
	}
	width := m.viewWidth()
	sections := []string{m.viewHeader(width)}
	bodyH := m.bodyHeight()
	switch kind := m.modals.Current(); {
	case kind == modal.None:
		sections = append(sections, m.viewColumns(width, bodyH))
	case kind.IsMenu():
		sections = append(sections, m.place(width, bodyH, m.menuPosition(kind), m.viewMenu()))
	default:
		sections = append(sections, m.place(width, bodyH, lipgloss.Center, m.viewForm(kind)))
	}
	sections = append(sections, fitWidth(m.statusLine(), width), fitWidth(m.filterPrompt(), width))
	if m.showFooter {
		sections = append(sections, fitWidth(m.footer(), width))
	}
	return strings.Join(sections, "\n")
}

// footer renders the key help. Verbose mode leads with the dedupe window and
// the number of requests in flight.
func (m *Model) footer() string {
	text := footerText
	if m.verbose {
		stats := fmt.Sprintf("%d pending", m.bus.Len())
		if m.cache != nil {
			stats = "dedupe " + m.cache.Dedupe().String() + " · " + stats
		}
		text = "[" + stats + "]  " + text
	}
	return render(styles.Footer, text)
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// bodyHeight is the number of rows between the header and the status line,
// or -1 when the terminal height is unknown.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return -1
	}
	used := 3
	if m.showFooter {
		used++
	}
	if remain := m.height - used; remain > 1 {
		return remain
	}
	return 1
}

// maxVisibleItems is the number of list rows a column can show below its
// titles.
func (m *Model) maxVisibleItems() int {
	bodyH := m.bodyHeight()
	if bodyH < 0 {
		return -1
	}
	if remain := bodyH - 3; remain > 1 {
		return remain
	}
	return 1
}

func (m *Model) viewHeader(width int) string {
	left := render(styles.Header, m.workspaceName())
	right := ""
	if user := m.users.User(); user != nil {
		meta := user.Nickname
		if at := m.users.UpdatedAt(); !at.IsZero() {
			meta += " · synced " + humanize.RelTime(at, m.now(), "ago", "from now")
		}
		right = render(styles.HeaderMeta, meta)
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return fitWidth(left+" "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) viewColumns(width, height int) string {
	detailW := width - workspaceColumnW - channelColumnW
	if detailW < detailColumnMinW {
		detailW = detailColumnMinW
	}
	workspaces := m.viewColumn(ColumnWorkspaces, workspaceColumnW, height, m.workspaceRows)
	channels := m.viewColumn(ColumnChannels, channelColumnW, height, m.channelRows)
	detail := m.viewColumn(ColumnMembers, detailW, height, m.memberRows)
	return lipgloss.JoinHorizontal(lipgloss.Top, workspaces, channels, detail)
}

type rowsFunc func(l *level, start, end, width int) []string

// viewColumn renders one bordered column padded to width and height.
func (m *Model) viewColumn(col Column, width, height int, rows rowsFunc) string {
	l := m.columns[col]
	style := styles.Column
	titleStyle := styles.ColumnTitle
	if col == m.focus {
		style = styles.FocusedColumn
		titleStyle = styles.FocusedColumnTitle
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 4 {
		inner = 4
	}
	lines := []string{render(titleStyle, m.columnTitle(col))}
	if col == ColumnMembers {
		lines = append(lines, m.channelHeading())
	}
	m.syncViewport(l)
	start, end := visibleRange(l, m.maxVisibleItems())
	if len(l.Items) == 0 {
		lines = append(lines, render(styles.Muted, m.emptyText(col, l)))
	} else {
		lines = append(lines, rows(l, start, end, inner)...)
	}
	for i, line := range lines {
		lines[i] = fitWidth(line, inner)
	}
	if height > 0 {
		for len(lines) < height {
			lines = append(lines, strings.Repeat(" ", inner))
		}
		if len(lines) > height {
			lines = lines[:height]
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) columnTitle(col Column) string {
	l := m.columns[col]
	title := l.Title
	if col == ColumnMembers {
		title = fmt.Sprintf("Members (%d)", len(l.Full))
	}
	if l.Filter != "" {
		title += fmt.Sprintf(" [%d/%d]", len(l.Items), len(l.Full))
	}
	return title
}

func (m *Model) channelHeading() string {
	if current := m.channels.Current(); current != "" {
		return render(styles.ActiveItem, "# "+current)
	}
	return render(styles.Muted, "no channel selected")
}

func (m *Model) emptyText(col Column, l *level) string {
	if l.Filter != "" {
		return fmt.Sprintf("no matches for %q", l.Filter)
	}
	switch col {
	case ColumnWorkspaces:
		return "ctrl+n to create one"
	case ColumnChannels:
		if err := m.channels.Err(); err != nil {
			return "failed to load"
		}
		return "ctrl+t to create one"
	case ColumnMembers:
		if err := m.members.Err(); err != nil {
			return "failed to load"
		}
	}
	return "(none)"
}

func (m *Model) workspaceRows(l *level, start, end, width int) []string {
	current := m.channels.Workspace()
	out := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		item := l.Items[idx]
		badgeStyle := styles.Badge
		if item.ID == current {
			badgeStyle = styles.ActiveBadge
		}
		badge := render(badgeStyle, badgeLetter(item.Label))
		out = append(out, badge+" "+m.itemText(l, ColumnWorkspaces, idx, item.Label, item.ID == current, width-lipgloss.Width(badge)-1))
	}
	return out
}

func (m *Model) channelRows(l *level, start, end, width int) []string {
	current := m.channels.Current()
	out := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		item := l.Items[idx]
		out = append(out, m.itemText(l, ColumnChannels, idx, "# "+item.Label, item.ID == current, width))
	}
	return out
}

func (m *Model) memberRows(l *level, start, end, width int) []string {
	rows := make([][]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		rows = append(rows, []string{l.Items[idx].Label, l.Items[idx].Hint})
	}
	nameW := width / 3
	formatted := table.FormatMax(rows, nil, []int{nameW, width - nameW - 4})
	out := make([]string, 0, len(formatted))
	for i, text := range formatted {
		out = append(out, m.itemText(l, ColumnMembers, start+i, text, false, width))
	}
	return out
}

// itemText styles one list row. The row under the cursor is highlighted in
// the focused column.
func (m *Model) itemText(l *level, col Column, idx int, text string, active bool, width int) string {
	indicator := "  "
	style := styles.Item
	if active {
		style = styles.ActiveItem
	}
	if idx == l.Cursor && col == m.focus {
		indicator = render(styles.SelectedItemIndicator, "▌") + " "
		style = styles.SelectedItem
	}
	text = fitWidth(text, width-2)
	return indicator + render(style, text)
}

// viewForm renders the dialog for kind.
func (m *Model) viewForm(kind modal.Kind) string {
	form := m.forms[kind]
	if form == nil {
		return ""
	}
	lines := []string{render(styles.ModalTitle, form.Title())}
	if sub := form.Subtitle(); sub != "" {
		lines = append(lines, render(styles.Muted, sub))
	}
	lines = append(lines, "", form.View(), "")
	if form.Pending() {
		lines = append(lines, render(styles.Pending, "Saving…"))
	} else if m.errMsg != "" {
		lines = append(lines, render(styles.Error, m.errMsg))
	}
	lines = append(lines, render(styles.ModalHelp, form.Help()))
	return render(styles.Modal, strings.Join(lines, "\n"))
}

// viewMenu renders the open popover. The account menu shows the nickname
// with an active status line above its entries.
func (m *Model) viewMenu() string {
	current := m.currentMenu()
	if current == nil {
		return ""
	}
	lines := []string{render(styles.ModalTitle, current.Title)}
	if m.modals.IsOpen(modal.UserMenu) && len(m.menus) == 1 {
		lines = append(lines, render(styles.Status, "● Active"))
	}
	lines = append(lines, "")
	if len(current.Items) == 0 {
		lines = append(lines, render(styles.Muted, "(no entries)"))
	}
	for idx, item := range current.Items {
		text := item.Label
		if item.Hint != "" {
			text += "  " + render(styles.Muted, item.Hint)
		}
		if idx == current.Cursor {
			text = render(styles.SelectedItemIndicator, "▌") + " " + render(styles.SelectedItem, item.Label)
			if item.Hint != "" {
				text += "  " + render(styles.Muted, item.Hint)
			}
		} else {
			text = "  " + text
		}
		lines = append(lines, text)
	}
	return render(styles.Menu, strings.Join(lines, "\n"))
}

func (m *Model) menuPosition(kind modal.Kind) lipgloss.Position {
	if kind == modal.UserMenu {
		return lipgloss.Right
	}
	return lipgloss.Left
}

// place positions an overlay inside the body area.
func (m *Model) place(width, height int, pos lipgloss.Position, content string) string {
	if height <= 0 {
		height = lipgloss.Height(content)
	}
	vertical := lipgloss.Top
	if pos == lipgloss.Center {
		vertical = lipgloss.Center
	}
	return lipgloss.Place(width, height, pos, vertical, content)
}

func (m *Model) statusLine() string {
	if m.errMsg != "" {
		return render(styles.Error, "Error: "+m.errMsg)
	}
	if info := m.currentInfo(); info != "" {
		return render(styles.Info, info)
	}
	return ""
}

func (m *Model) viewConnecting() string {
	lines := []string{render(styles.ModalTitle, "Connecting…")}
	if err := m.users.Err(); err != nil {
		lines = append(lines, "", render(styles.Error, "Error: "+err.Error()), render(styles.Muted, "r to retry · ctrl+c to quit"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewSignedOut() string {
	lines := []string{
		render(styles.ModalTitle, "Signed out"),
		"",
		"This session is not signed in.",
		"Sign in with a browser and pass the session cookie with --cookie",
		"or SLEACT_COOKIE, then press r to retry.",
		"",
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, render(styles.Info, info))
	}
	lines = append(lines, render(styles.Footer, "r retry · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(infoTTL)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}

func visibleRange(l *level, maxVisible int) (int, int) {
	total := len(l.Items)
	if maxVisible <= 0 || total <= maxVisible {
		return 0, total
	}
	start := l.ViewportOffset
	if start < 0 {
		start = 0
	}
	if start+maxVisible > total {
		start = total - maxVisible
	}
	return start, start + maxVisible
}

func badgeLetter(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

// fitWidth truncates or pads s to exactly width terminal cells.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w > width {
		s = truncate.StringWithTail(s, uint(width), "…")
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
