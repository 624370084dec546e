package settings

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone      *string `help:"IANA timezone used to decide what 'today' is, or Local."`
	DayStart      *string `help:"When your day starts (HH:MM)."`
	Notifications *bool   `help:"Enable or disable badge notifications."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		equipped := settings.EquippedBadge
		if equipped == "" {
			equipped = "(none)"
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Day Start:             %s\n", settings.DayStart)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Equipped Badge:        %s\n", equipped)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DayStart != nil {
		settings.DayStart = *c.DayStart
		updated = true
	}
	if c.Notifications != nil {
		settings.NotificationsEnabled = *c.Notifications
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
