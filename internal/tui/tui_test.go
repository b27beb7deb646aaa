package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/service"
)

func TestParseRatingInput(t *testing.T) {
	tests := []struct {
		in     string
		want   service.RatingAnswer
		wantOK bool
	}{
		{"7", service.RatingAnswer{Action: service.RatingRate, Score: 7}, true},
		{" 10 ", service.RatingAnswer{Action: service.RatingRate, Score: 10}, true},
		{"", service.RatingAnswer{Action: service.RatingSkip}, true},
		{"s", service.RatingAnswer{Action: service.RatingSkip}, true},
		{"Q", service.RatingAnswer{Action: service.RatingQuit}, true},
		{"0", service.RatingAnswer{}, false},
		{"11", service.RatingAnswer{}, false},
		{"great", service.RatingAnswer{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseRatingInput(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseRatingInput(%q) = %#v, %v; want %#v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func sampleChoices() []domain.Content {
	return []domain.Content{
		{ID: 1, Title: "The Office", Year: 2005, Type: domain.ContentTypeSerial},
		{ID: 2, Title: "The Office", Year: 2001, Type: domain.ContentTypeSerial},
		{ID: 3, Title: "Office Space", Year: 1999, Type: domain.ContentTypeMovie},
	}
}

func TestPickPlainRetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("9\nabc\n3\n"), &out)
	if c.Interactive() {
		t.Fatal("buffers must not be treated as a terminal")
	}

	n, err := c.Pick(context.Background(), sampleChoices())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
	if got := strings.Count(out.String(), "Please enter a number between 1 and 3."); got != 2 {
		t.Fatalf("expected 2 retry messages, got %d in %q", got, out.String())
	}
	if !strings.Contains(out.String(), "Office Space") {
		t.Fatal("expected choices table in output")
	}
}

func TestPickPlainEOFCancels(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{})
	if _, err := c.Pick(context.Background(), sampleChoices()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestPromptRatingPlain(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("twelve\n8\n"), &out)
	item := domain.WatchingItem{ID: 5, Title: "Dark", Type: domain.ContentTypeSerial}

	answer, err := c.PromptRating(context.Background(), item, 1, 3)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if answer.Action != service.RatingRate || answer.Score != 8 {
		t.Fatalf("unexpected answer %#v", answer)
	}
	if !strings.Contains(out.String(), "Dark [Series]") || !strings.Contains(out.String(), ratingHint) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPromptRatingPlainEOFQuits(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{})
	answer, err := c.PromptRating(context.Background(), domain.WatchingItem{Title: "X"}, 1, 1)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if answer.Action != service.RatingQuit {
		t.Fatalf("expected quit, got %#v", answer)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerModelFilterAndSelect(t *testing.T) {
	var m tea.Model = newPickerModel("pick", sampleChoices())

	m, _ = m.Update(keyRunes("/"))
	for _, r := range "space" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	pm := m.(pickerModel)
	if got := pm.visible(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected only Office Space visible, got %v", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // leave filter mode
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm = m.(pickerModel)
	if pm.chosen != 2 || cmd == nil {
		t.Fatalf("expected index 2 chosen, got %d", pm.chosen)
	}
}

func TestPickerModelNavigationAndCancel(t *testing.T) {
	var m tea.Model = newPickerModel("pick", sampleChoices())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if c := m.(pickerModel).cursor; c != 2 {
		t.Fatalf("cursor should clamp at 2, got %d", c)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.(pickerModel).cancelled {
		t.Fatal("expected cancel")
	}
}

func TestPickerModelNumberShortcut(t *testing.T) {
	var m tea.Model = newPickerModel("pick", sampleChoices())
	m, _ = m.Update(keyRunes("2"))
	if c := m.(pickerModel).chosen; c != 1 {
		t.Fatalf("expected index 1, got %d", c)
	}
}

func TestRenderTable(t *testing.T) {
	columns := []Column{{Header: "#", Align: AlignRight}, {Header: "Title", MaxWidth: 10}}
	out := RenderTable(columns, [][]string{{"1", "Heat"}, {"2", "Once Upon a Time in America"}})
	if !strings.Contains(out, "Heat") || !strings.Contains(out, "Title") {
		t.Fatalf("unexpected table %q", out)
	}
	if strings.Contains(out, "TITLE") {
		t.Fatalf("header case not preserved: %q", out)
	}
	if !strings.Contains(out, "Once Upon…") || strings.Contains(out, "America") {
		t.Fatalf("long title not shortened: %q", out)
	}
}

func TestRenderTableShortRow(t *testing.T) {
	out := RenderTable([]Column{{Header: "ID"}, {Header: "Title"}}, [][]string{{"7"}})
	if !strings.Contains(out, "7") || strings.Count(out, "\n") != 4 {
		t.Fatalf("unexpected table %q", out)
	}
	if RenderTable(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}
