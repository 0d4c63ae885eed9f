package cli

import (
	"github.com/HeatedDotCom/heated/internal/game"
	"github.com/HeatedDotCom/heated/pkg/logger"
)

// AppOption configures the App.
type AppOption func(*App)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) AppOption {
	return func(a *App) {
		a.log = log
	}
}

// WithGameOptions forwards options to every controller the app
// creates, typically the configured phase timings.
func WithGameOptions(opts ...game.Option) AppOption {
	return func(a *App) {
		a.gameOpts = opts
	}
}
