package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

// ErrCancelled is returned when the user backs out of a prompt
var ErrCancelled = errors.New("cancelled")

const defaultPanelWidth = 72

// Console writes panels and prompts to a terminal, falling back to
// line-oriented input when stdin or stdout is not a TTY.
type Console struct {
	in          io.Reader
	reader      *bufio.Reader
	out         io.Writer
	renderer    *lipgloss.Renderer
	interactive bool
	width       int
}

// NewConsole creates a console over the given streams
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:       in,
		reader:   bufio.NewReader(in),
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		width:    defaultPanelWidth,
	}
	c.interactive = isTerminal(in) && isTerminal(out)
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < defaultPanelWidth+4 {
			c.width = w - 4
		}
	}
	return c
}

// Interactive reports whether full-screen prompts can be used
func (c *Console) Interactive() bool {
	return c.interactive
}

// Out returns the output stream
func (c *Console) Out() io.Writer {
	return c.out
}

// Println writes a plain line
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted plain text
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Panel renders body inside a titled rounded box
func (c *Console) Panel(title, body string, tone styles.Tone) {
	border := styles.PanelBorder(tone)
	titleStyle := c.renderer.NewStyle().Foreground(border).Bold(true)
	box := c.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(c.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		body,
	)
	fmt.Fprintln(c.out, box.Render(content))
}

// Status writes a single styled line
func (c *Console) Status(msg string, tone styles.Tone) {
	style := c.renderer.NewStyle().Foreground(styles.PanelBorder(tone))
	fmt.Fprintln(c.out, style.Render(msg))
}

// readLine prompts and reads one trimmed line. EOF with no input is ErrCancelled.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(c.out)
			return "", ErrCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
