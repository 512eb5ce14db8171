package state

import (
	"reflect"
	"testing"

	"github.com/atomicstack/sleact-tui/internal/menu"
)

func itemIDs(items []menu.Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterEdits(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		pos        int
		edit       func(*Level) bool
		wantFilter string
		wantPos    int
		wantOK     bool
	}{
		{"insert into empty", "", 0, func(l *Level) bool { return l.InsertFilterText("ge") }, "ge", 2, true},
		{"insert mid query", "gn", 1, func(l *Level) bool { return l.InsertFilterText("e") }, "gen", 2, true},
		{"insert nothing", "gen", 3, func(l *Level) bool { return l.InsertFilterText("") }, "gen", 3, false},
		{"insert after accent", "café", 4, func(l *Level) bool { return l.InsertFilterText("s") }, "cafés", 5, true},
		{"backspace", "gen", 2, (*Level).DeleteFilterRuneBackward, "gn", 1, true},
		{"backspace accent", "café", 4, (*Level).DeleteFilterRuneBackward, "caf", 3, true},
		{"backspace at start", "gen", 0, (*Level).DeleteFilterRuneBackward, "gen", 0, false},
		{"word backspace", "dev ops", 7, (*Level).DeleteFilterWordBackward, "dev ", 4, true},
		{"word backspace eats spaces", "dev  ", 5, (*Level).DeleteFilterWordBackward, "", 0, true},
		{"word backspace mid query", "dev ops", 3, (*Level).DeleteFilterWordBackward, " ops", 0, true},
		{"word backspace at start", "dev", 0, (*Level).DeleteFilterWordBackward, "dev", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel("general", "random", "dev")
			l.SetFilter(tt.filter, tt.pos)
			if ok := tt.edit(l); ok != tt.wantOK {
				t.Fatalf("edit reported %v, want %v", ok, tt.wantOK)
			}
			if l.Filter != tt.wantFilter || l.FilterCursorPos() != tt.wantPos {
				t.Fatalf("got %q@%d, want %q@%d", l.Filter, l.FilterCursorPos(), tt.wantFilter, tt.wantPos)
			}
		})
	}
}

func TestFilterCaretMoves(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		pos     int
		move    func(*Level) bool
		wantPos int
		wantOK  bool
	}{
		{"left", "gen ral", 7, (*Level).MoveFilterCursorRuneBackward, 6, true},
		{"left at start", "gen ral", 0, (*Level).MoveFilterCursorRuneBackward, 0, false},
		{"right at end", "gen ral", 7, (*Level).MoveFilterCursorRuneForward, 7, false},
		{"right", "gen ral", 3, (*Level).MoveFilterCursorRuneForward, 4, true},
		{"start", "gen ral", 3, (*Level).MoveFilterCursorStart, 0, true},
		{"start when there", "gen ral", 0, (*Level).MoveFilterCursorStart, 0, false},
		{"end", "gen ral", 3, (*Level).MoveFilterCursorEnd, 7, true},
		{"left over accent", "né", 2, (*Level).MoveFilterCursorRuneBackward, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel("general")
			l.SetFilter(tt.filter, tt.pos)
			if ok := tt.move(l); ok != tt.wantOK {
				t.Fatalf("move reported %v, want %v", ok, tt.wantOK)
			}
			if l.FilterCursorPos() != tt.wantPos {
				t.Fatalf("caret at %d, want %d", l.FilterCursorPos(), tt.wantPos)
			}
			if l.Filter != tt.filter {
				t.Fatalf("caret move changed query to %q", l.Filter)
			}
		})
	}
}

func TestFilterRestoresChannelCursor(t *testing.T) {
	l := newTestLevel("general", "random", "dev")
	l.Cursor = 2

	l.SetFilter("random", len("random"))
	if got := itemIDs(l.Items); !reflect.DeepEqual(got, []string{"random"}) {
		t.Fatalf("filtered to %v", got)
	}
	if l.Cursor != 0 || l.LastCursor != 2 {
		t.Fatalf("cursor=%d last=%d after filtering", l.Cursor, l.LastCursor)
	}

	l.SetFilter("", 0)
	if l.Cursor != 2 || l.LastCursor != -1 {
		t.Fatalf("cursor=%d last=%d after clearing", l.Cursor, l.LastCursor)
	}
}

func TestNarrowingFilterKeepsRememberedCursor(t *testing.T) {
	l := newTestLevel("general", "random", "dev")
	l.Cursor = 2
	l.SetFilter("r", 1)
	l.SetFilter("ra", 2)
	if item, _ := l.Current(); item.ID != "random" {
		t.Fatalf("expected prefix match on random, got %#v", item)
	}
	l.SetFilter("", 0)
	if item, _ := l.Current(); item.ID != "dev" {
		t.Fatalf("expected dev restored, got %#v", item)
	}
}

func TestClearingFilterWithoutHistoryReturnsToTop(t *testing.T) {
	l := newTestLevel("general", "random")
	l.Filter = "ran"
	l.LastCursor = -1
	l.SetFilter("", 0)
	if l.Cursor != 0 {
		t.Fatalf("expected cursor at top, got %d", l.Cursor)
	}
}

func TestFilterItems(t *testing.T) {
	channels := []menu.Item{
		{ID: "general", Label: "general"},
		{ID: "random", Label: "random"},
		{ID: "dev", Label: "dev"},
	}
	members := []menu.Item{
		{ID: "zero@example.com", Label: "zero", Hint: "zero@example.com"},
		{ID: "kim@example.com", Label: "kim", Hint: "kim@example.com"},
	}
	tests := []struct {
		name  string
		items []menu.Item
		query string
		want  []string
	}{
		{"blank query keeps all", channels, "  ", []string{"general", "random", "dev"}},
		{"prefix", channels, "gen", []string{"general"}},
		{"case folded", channels, "GEN", []string{"general"}},
		{"fuzzy", channels, "ndm", []string{"random"}},
		{"original order", channels, "e", []string{"general", "dev"}},
		{"no match", channels, "xyz", []string{}},
		{"member by email", members, "kim@", []string{"kim@example.com"}},
		{"id substring fallback", []menu.Item{{ID: "ch-42", Label: "general"}}, "42", []string{"ch-42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemIDs(FilterItems(tt.items, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterItems(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterItemsCopies(t *testing.T) {
	items := []menu.Item{{ID: "general", Label: "general"}}
	out := FilterItems(items, "")
	out[0].Label = "renamed"
	if items[0].Label != "general" {
		t.Fatalf("filtering must not alias its input")
	}
}

func TestBestMatchIndex(t *testing.T) {
	ordinal := []menu.Item{
		{ID: "one", Label: "First"},
		{ID: "two", Label: "Second"},
		{ID: "three", Label: "Third"},
	}
	tests := []struct {
		name  string
		items []menu.Item
		query string
		want  int
	}{
		{"exact label", ordinal, "Second", 1},
		{"exact id", ordinal, "two", 1},
		{"label prefix", ordinal, "th", 2},
		{"blank", ordinal, "", 0},
		{"nothing matches", ordinal, "zzz", 0},
		{"no items", nil, "anything", -1},
		{"label prefix before id prefix", []menu.Item{
			{ID: "alpha", Label: "beta"},
			{ID: "b", Label: "alpha-2"},
		}, "al", 1},
		{"closest fuzzy", []menu.Item{
			{ID: "general chat", Label: "general chat"},
			{ID: "g-c", Label: "g-c"},
		}, "gc", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestMatchIndex(tt.items, tt.query); got != tt.want {
				t.Fatalf("BestMatchIndex(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}
