package browser

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// Launcher opens watch pages in a browser
type Launcher struct {
	command string   // configured browser command, empty for auto-detection
	args    []string // additional arguments for the browser
	goos    string
	exec    commandRunner
	logger  *slog.Logger
}

// commandRunner abstracts process launching for testing
type commandRunner interface {
	LookPath(file string) (string, error)
	// Run waits for the command, Start does not
	Run(name string, args ...string) error
	Start(name string, args ...string) error
}

type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() // reap
	return nil
}

// launchPath defines a single way to launch a browser
type launchPath struct {
	path string // Command path: "google-chrome" or "open-a:AppName"
}

// browsers registry, platform -> launch paths to try in order
var browsers = map[string]map[string][]launchPath{
	"chrome": {
		"darwin":  {{path: "open-a:Google Chrome"}},
		"linux":   {{path: "google-chrome"}, {path: "google-chrome-stable"}},
		"windows": {{path: "chrome"}},
	},
	"chromium": {
		"darwin": {{path: "open-a:Chromium"}},
		"linux":  {{path: "chromium"}, {path: "chromium-browser"}},
	},
	"firefox": {
		"darwin":  {{path: "open-a:Firefox"}},
		"linux":   {{path: "firefox"}},
		"windows": {{path: "firefox"}},
	},
}

// candidateBrowsers defines the preferred browser order for each platform
var candidateBrowsers = map[string][]string{
	"darwin":  {"chrome"},
	"linux":   {"chrome", "chromium", "firefox"},
	"windows": {"chrome", "firefox"},
}

// NewLauncher creates a Launcher. An empty command enables auto-detection.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		exec:    osRunner{},
		logger:  logger,
	}
}

// Open launches url in the configured browser, a detected candidate, or
// the system default, in that order.
func (l *Launcher) Open(url string) error {
	// Tier 1: User configured a specific browser
	if l.command != "" {
		l.logger.Info("using configured browser", "command", l.command)
		err := l.launchConfigured(url)
		if err == nil {
			return nil
		}
		l.logger.Warn("configured browser failed", "command", l.command, "error", err)
	}

	// Tier 2: Try candidate chain (Chrome first, as the site expects)
	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected browser", "browser", name)
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate browsers found, using system default")
	if err := l.launchDefault(url); err != nil {
		l.logger.Error("system default browser failed", "error", err)
		return fmt.Errorf("%w: install Google Chrome or set browser.command", domain.ErrNoBrowser)
	}
	return nil
}

func (l *Launcher) launchConfigured(url string) error {
	args := append(append([]string{}, l.args...), url)

	// On macOS, GUI apps are usually not in PATH
	if l.goos == "darwin" {
		if _, err := l.exec.LookPath(l.command); err != nil {
			return l.exec.Run("open", append([]string{"-a", l.command, "--args"}, args...)...)
		}
	}
	if _, err := l.exec.LookPath(l.command); err != nil {
		return err
	}
	return l.exec.Start(l.command, args...)
}

// detectAndLaunch tries candidate browsers in order.
// Returns the browser name that succeeded.
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidateBrowsers[l.goos]
	if !ok {
		candidates = candidateBrowsers["linux"] // default
	}

	for _, name := range candidates {
		for _, lp := range browsers[name][l.goos] {
			var err error
			if strings.HasPrefix(lp.path, "open-a:") {
				// open -a waits and fails when the app is missing
				err = l.exec.Run("open", "-a", strings.TrimPrefix(lp.path, "open-a:"), url)
			} else if _, err = l.exec.LookPath(lp.path); err == nil {
				err = l.exec.Start(lp.path, url)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "browser", name, "path", lp.path, "error", err)
		}
	}
	return "", fmt.Errorf("no candidate browsers found")
}

func (l *Launcher) launchDefault(url string) error {
	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	switch l.goos {
	case "darwin":
		return l.exec.Start("open", url)
	case "windows":
		return l.exec.Start("cmd", "/c", "start", "", url)
	default:
		if _, err := l.exec.LookPath("xdg-open"); err != nil {
			return err
		}
		return l.exec.Start("xdg-open", url)
	}
}
