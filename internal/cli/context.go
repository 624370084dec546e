package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
	"github.com/julianstephens/habitquest/internal/tracker"
)

// Context is handed to every command's Run method.
type Context struct {
	Store storage.Provider
	// Clock overrides the wall clock. When nil, a clock in the configured
	// timezone is used.
	Clock    calendar.Clock
	Notifier tracker.Notifier
	// Confirm asks a yes/no question. When nil, an interactive prompt is shown.
	Confirm func(title, description string) (bool, error)

	tracker *tracker.Tracker
}

// Tracker returns the tracker for the loaded store, building it on first use.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	clock, err := c.clock()
	if err != nil {
		return nil, err
	}
	var opts []tracker.Option
	if c.Notifier != nil {
		opts = append(opts, tracker.WithNotifier(c.Notifier))
	}
	c.tracker = tracker.New(c.Store, clock, opts...)
	return c.tracker, nil
}

func (c *Context) clock() (calendar.Clock, error) {
	if c.Clock != nil {
		return c.Clock, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return calendar.NewSystemClock(settings.Timezone)
}

// Ctx is the context passed to tracker calls.
func (c *Context) Ctx() context.Context {
	return context.Background()
}

// Ask runs the confirmation prompt.
func (c *Context) Ask(title, description string) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(title, description)
	}
	confirmed := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	return confirmed, err
}

// PerformAutomaticBackup snapshots SQLite stores after a mutation. Failures
// are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
