// Package theme persists the gallery's light/dark display mode.
package theme

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/storage"
)

// Mode is the display mode applied as the body's data-theme attribute.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Default is used when nothing valid is stored.
const Default = Dark

// ParseMode converts a stored or submitted value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown theme mode %q", s)
	}
}

// Opposite returns the other mode
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// IsLight reports whether the toggle should render checked
func (m Mode) IsLight() bool { return m == Light }

func (m Mode) String() string { return string(m) }

// Controller reads and writes the mode under storage.KeyTheme.
type Controller struct {
	kv     storage.KV
	logger *zap.Logger
	mu     sync.Mutex
}

// NewController creates a controller over kv
func NewController(kv storage.KV, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{kv: kv, logger: logger.Named("theme")}
}

// Current returns the persisted mode, falling back to Default when the
// key is missing, unreadable or holds an unknown value.
func (c *Controller) Current(ctx context.Context) Mode {
	raw, ok, err := c.kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		c.logger.Warn("Failed to read theme", zap.Error(err))
		return Default
	}
	if !ok {
		return Default
	}
	mode, err := ParseMode(raw)
	if err != nil {
		c.logger.Warn("Ignoring stored theme", zap.String("value", raw))
		return Default
	}
	return mode
}

// Set persists mode
func (c *Controller) Set(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if err := c.kv.Set(ctx, storage.KeyTheme, mode.String()); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	c.logger.Debug("Theme set", zap.String("mode", mode.String()))
	return nil
}

// Toggle flips the persisted mode and returns the new one.
func (c *Controller) Toggle(ctx context.Context) (Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.Current(ctx).Opposite()
	if err := c.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
