package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

// pickerKeyMap defines key bindings for the result picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Select key.Binding
	Cancel key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// pickerModel lets the user choose one search result
type pickerModel struct {
	title  string
	labels []string
	keys   pickerKeyMap

	filter    textinput.Model
	filtering bool
	matches   []fuzzy.Match // nil when no filter is applied

	cursor    int
	chosen    int // index into labels, -1 until chosen
	cancelled bool
}

func newPickerModel(title string, choices []domain.Content) pickerModel {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = choiceLabel(c)
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.Placeholder = "filter..."
	ti.PlaceholderStyle = styles.DimStyle
	ti.CharLimit = 64

	return pickerModel{
		title:  title,
		labels: labels,
		keys:   defaultPickerKeyMap(),
		filter: ti,
		chosen: -1,
	}
}

func choiceLabel(c domain.Content) string {
	return fmt.Sprintf("%s [%s]", c.DisplayTitle(), c.Type.Label())
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

// visible returns label indexes in display order
func (m pickerModel) visible() []int {
	if m.matches == nil {
		idx := make([]int, len(m.labels))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, len(m.matches))
	for i, match := range m.matches {
		idx[i] = match.Index
	}
	return idx
}

func (m *pickerModel) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.matches = nil
	} else {
		lower := make([]string, len(m.labels))
		for i, l := range m.labels {
			lower[i] = strings.ToLower(l)
		}
		m.matches = fuzzy.Find(strings.ToLower(query), lower)
		if m.matches == nil {
			m.matches = []fuzzy.Match{}
		}
	}
	m.cursor = 0
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "up", "down":
			// fall through to navigation
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
	}

	visible := m.visible()
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if len(visible) > 0 {
			m.chosen = visible[m.cursor]
			return m, tea.Quit
		}
	default:
		if n, err := strconv.Atoi(keyMsg.String()); err == nil && n >= 1 && n <= len(m.labels) {
			m.chosen = n - 1
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(styles.DimStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	for row, idx := range visible {
		var matched []int
		if m.matches != nil {
			matched = m.matches[row].MatchedIndexes
		}
		line := fmt.Sprintf("%d. ", idx+1) + highlight(m.labels[idx], matched)
		if row == m.cursor {
			b.WriteString(styles.SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.helpView())
	return b.String()
}

func (m pickerModel) helpView() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Filter, m.keys.Select, m.keys.Cancel}
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
	}
	return strings.Join(parts, styles.HelpDescStyle.Render(" • "))
}

// highlight emphasises matched byte offsets of label
func highlight(label string, matched []int) string {
	if len(matched) == 0 {
		return label
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range label {
		if set[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Pick asks the user to choose one of choices and returns its 1-based index
func (c *Console) Pick(ctx context.Context, choices []domain.Content) (int, error) {
	if len(choices) == 0 {
		return 0, ErrCancelled
	}
	if !c.interactive {
		return c.pickPlain(choices)
	}

	p := tea.NewProgram(
		newPickerModel("Multiple matches, choose one:", choices),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	final, err := p.Run()
	if err != nil {
		return 0, err
	}
	m := final.(pickerModel)
	if m.cancelled || m.chosen < 0 {
		return 0, ErrCancelled
	}
	return m.chosen + 1, nil
}

func (c *Console) pickPlain(choices []domain.Content) (int, error) {
	rows := make([][]string, len(choices))
	for i, ch := range choices {
		year := ""
		if ch.Year > 0 {
			year = strconv.Itoa(ch.Year)
		}
		rows[i] = []string{strconv.Itoa(i + 1), ch.Title, year, ch.Type.Label()}
	}
	c.Println("Multiple matches, choose one:")
	c.Println(RenderTable([]Column{
		{Header: "#", Align: AlignRight},
		{Header: "Title", MaxWidth: TitleWidth},
		{Header: "Year", Align: AlignRight},
		{Header: "Type"},
	}, rows))

	prompt := fmt.Sprintf("Select [1-%d]: ", len(choices))
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(line, "q") {
			return 0, ErrCancelled
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(choices) {
			return n, nil
		}
		c.Status(fmt.Sprintf("Please enter a number between 1 and %d.", len(choices)), styles.ToneWarn)
	}
}
