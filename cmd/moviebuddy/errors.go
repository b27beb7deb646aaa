package main

import (
	"errors"

	"github.com/mmcdole/moviebuddy/internal/config"
	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/tui"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

// errReported marks a failure the command already showed to the user
var errReported = errors.New("reported")

// errorPanel chooses the panel title and text for a failed command
func errorPanel(err error) (title, body string) {
	switch {
	case errors.Is(err, domain.ErrAuthTimeout):
		return "Auth Error", "Authorization timed out. Please try again."
	case errors.Is(err, domain.ErrAuth):
		return "Auth Error", "Authentication required. Run `moviebuddy auth` to sign in.\n\n" + err.Error()
	case errors.Is(err, domain.ErrNetwork):
		return "Network Error", "Unable to reach kino.pub. Check your internet connection.\n\n" + err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return "Network Error", "kino.pub is rate limiting requests. Wait a moment and try again.\n\n" + err.Error()
	case errors.Is(err, config.ErrMissingCredentials):
		return "Configuration Error", err.Error()
	case errors.Is(err, domain.ErrStoreNotConfigured):
		return "Configuration Error", "No database configured. Set DATABASE_URL or store.database_url in the config file."
	default:
		return "Error", "An error occurred.\n\n" + err.Error()
	}
}

func renderError(console *tui.Console, err error) {
	title, body := errorPanel(err)
	console.Panel(title, body, styles.ToneError)
}
