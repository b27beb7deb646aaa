package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/config"
	"github.com/mmcdole/moviebuddy/internal/database"
	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/log"
	"github.com/mmcdole/moviebuddy/internal/mediaserver"
	"github.com/mmcdole/moviebuddy/internal/mediaserver/kinopub"
	"github.com/mmcdole/moviebuddy/internal/store"
	"github.com/mmcdole/moviebuddy/internal/tui"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads configuration and sets up file logging once per run
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			cfg.Logging.Level = *c.logLevelFlag
		}

		logger, err := log.SetupLogger(&cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = log.NullLogger()
		}
		slog.SetDefault(logger)
		logger.Info("starting moviebuddy", "version", Version)

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) console(cmd *cobra.Command) *tui.Console {
	return tui.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
}

func (c *commandContext) authenticator() *kinopub.Authenticator {
	return mediaserver.NewAuthenticator(c.config, c.logger)
}

// mediaSource returns an API client holding a valid token
func (c *commandContext) mediaSource(ctx context.Context) (mediaserver.MediaSource, error) {
	return mediaserver.NewClient(ctx, c.config, c.authenticator(), c.logger)
}

// itemCache opens the detail cache, or returns nil when caching is off.
// A cache that cannot be opened degrades to memory-only.
func (c *commandContext) itemCache() domain.ItemCache {
	if !c.config.Cache.Enabled {
		return nil
	}
	cache, err := store.NewItemStore(c.config.Cache.Dir, c.config.KinoPub.APIBaseURL, c.config.Cache.TTL)
	if err != nil {
		c.logger.Warn("item cache unavailable, using memory only", "error", err, "dir", c.config.Cache.Dir)
		cache, _ = store.NewItemStore("", "", c.config.Cache.TTL)
	}
	return cache
}

func (c *commandContext) openStore(ctx context.Context) (database.Store, error) {
	db, err := database.Open(ctx, c.config.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("database opened", "type", db.DatabaseType())
	return db, nil
}
