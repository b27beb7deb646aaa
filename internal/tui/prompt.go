package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/service"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

const ratingHint = "Enter a number 1-10, Enter to skip, or q to quit."

// ParseRatingInput interprets one answer: a score, blank or "s" to skip,
// "q" to quit. ok is false for anything else.
func ParseRatingInput(s string) (answer service.RatingAnswer, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "q":
		return service.RatingAnswer{Action: service.RatingQuit}, true
	case "", "s":
		return service.RatingAnswer{Action: service.RatingSkip}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < domain.MinScore || n > domain.MaxScore {
		return service.RatingAnswer{}, false
	}
	return service.RatingAnswer{Action: service.RatingRate, Score: n}, true
}

// ratingModel reads one score with inline validation
type ratingModel struct {
	input  textinput.Model
	hint   string
	answer service.RatingAnswer
	done   bool
}

func newRatingModel() ratingModel {
	ti := textinput.New()
	ti.Prompt = "Score: "
	ti.PromptStyle = styles.AccentStyle
	ti.Placeholder = "1-10"
	ti.PlaceholderStyle = styles.DimStyle
	ti.CharLimit = 2
	ti.Width = 4
	ti.Focus()
	return ratingModel{input: ti}
}

func (m ratingModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ratingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.answer = service.RatingAnswer{Action: service.RatingQuit}
			m.done = true
			return m, tea.Quit
		case "enter":
			answer, ok := ParseRatingInput(m.input.Value())
			if !ok {
				m.hint = ratingHint
				m.input.SetValue("")
				return m, nil
			}
			m.answer = answer
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ratingModel) View() string {
	if m.done {
		return ""
	}
	view := m.input.View() + "\n"
	if m.hint != "" {
		view += styles.ErrorStyle.Render(m.hint) + "\n"
	}
	return view
}

// PromptRating shows one title and asks for a score
func (c *Console) PromptRating(ctx context.Context, item domain.WatchingItem, index, total int) (service.RatingAnswer, error) {
	c.Panel(
		fmt.Sprintf("Rate this (%d/%d)", index, total),
		fmt.Sprintf("%s [%s]", item.Title, item.Type.Label()),
		styles.ToneInfo,
	)

	if !c.interactive {
		return c.promptRatingPlain()
	}

	p := tea.NewProgram(
		newRatingModel(),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	final, err := p.Run()
	if err != nil {
		return service.RatingAnswer{}, err
	}
	return final.(ratingModel).answer, nil
}

func (c *Console) promptRatingPlain() (service.RatingAnswer, error) {
	for {
		line, err := c.readLine("Score (1-10, Enter to skip, q to quit): ")
		if errors.Is(err, ErrCancelled) {
			return service.RatingAnswer{Action: service.RatingQuit}, nil
		}
		if err != nil {
			return service.RatingAnswer{}, err
		}
		if answer, ok := ParseRatingInput(line); ok {
			return answer, nil
		}
		c.Status(ratingHint, styles.ToneWarn)
	}
}
