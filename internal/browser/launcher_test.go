package browser

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

type fakeRunner struct {
	available map[string]bool // commands found in PATH
	apps      map[string]bool // apps openable with open -a
	calls     []string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeRunner) Run(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if name == "open" && len(args) >= 2 && args[0] == "-a" && !f.apps[args[1]] {
		return errors.New("unable to find application")
	}
	return nil
}

func (f *fakeRunner) Start(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func newTestLauncher(goos, command string, runner *fakeRunner) *Launcher {
	l := NewLauncher(command, nil, nil)
	l.goos = goos
	l.exec = runner
	return l
}

const pageURL = "https://kino.pub/item/view/8894/s1e1"

func TestOpenPrefersChromeOnLinux(t *testing.T) {
	runner := &fakeRunner{available: map[string]bool{"google-chrome": true, "firefox": true}}
	if err := newTestLauncher("linux", "", runner).Open(pageURL); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "google-chrome "+pageURL {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestOpenFallsBackToNextCandidate(t *testing.T) {
	runner := &fakeRunner{available: map[string]bool{"firefox": true}}
	if err := newTestLauncher("linux", "", runner).Open(pageURL); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "firefox "+pageURL {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestOpenUsesOpenAOnDarwin(t *testing.T) {
	runner := &fakeRunner{apps: map[string]bool{"Google Chrome": true}}
	if err := newTestLauncher("darwin", "", runner).Open(pageURL); err != nil {
		t.Fatalf("open: %v", err)
	}
	if runner.calls[0] != "open -a Google Chrome "+pageURL {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestOpenConfiguredCommand(t *testing.T) {
	runner := &fakeRunner{available: map[string]bool{"brave": true, "google-chrome": true}}
	l := newTestLauncher("linux", "brave", runner)
	l.args = []string{"--incognito"}
	if err := l.Open(pageURL); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "brave --incognito "+pageURL {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestOpenSystemDefault(t *testing.T) {
	runner := &fakeRunner{available: map[string]bool{"xdg-open": true}}
	if err := newTestLauncher("linux", "", runner).Open(pageURL); err != nil {
		t.Fatalf("open: %v", err)
	}
	if runner.calls[len(runner.calls)-1] != "xdg-open "+pageURL {
		t.Fatalf("unexpected calls %v", runner.calls)
	}
}

func TestOpenNoBrowser(t *testing.T) {
	runner := &fakeRunner{}
	err := newTestLauncher("linux", "", runner).Open(pageURL)
	if !errors.Is(err, domain.ErrNoBrowser) {
		t.Fatalf("expected ErrNoBrowser, got %v", err)
	}
}
