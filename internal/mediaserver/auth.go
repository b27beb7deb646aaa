package mediaserver

import (
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/config"
	"github.com/mmcdole/moviebuddy/internal/mediaserver/kinopub"
)

// NewAuthenticator creates the device-flow authenticator backed by the
// encrypted token file in the config directory.
func NewAuthenticator(cfg *config.Config, logger *slog.Logger) *kinopub.Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	store := kinopub.NewFileTokenStore(cfg.TokenFile(), kinopub.WithStoreLogger(logger))
	return kinopub.NewAuthenticator(kinopub.AuthConfig{
		ClientID:     cfg.KinoPub.ClientID,
		ClientSecret: cfg.KinoPub.ClientSecret,
		OAuthURL:     cfg.KinoPub.OAuthURL,
		RefreshURL:   cfg.KinoPub.TokenRefreshURL,
	}, store, logger)
}
