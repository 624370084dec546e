package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/models"
	hqprogress "github.com/julianstephens/habitquest/internal/progress"
	"github.com/julianstephens/habitquest/internal/tracker"
)

const barWidth = 30

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	snap, err := t.Snapshot(ctx.Ctx())
	if err != nil {
		return err
	}
	unlocks, err := t.Unlocked(ctx.Ctx())
	if err != nil {
		return err
	}
	fmt.Print(renderStats(snap, len(unlocks)))
	return nil
}

func renderStats(snap tracker.Snapshot, unlocked int) string {
	m := snap.Metrics
	var sb strings.Builder

	title := fmt.Sprintf("Level %d", m.Level)
	if b, ok := achievements.Lookup(snap.Settings.EquippedBadge); ok {
		title += fmt.Sprintf("  %s %s", b.Icon, b.Name)
	}
	sb.WriteString(cli.TitleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(xpBar(m))
	sb.WriteString(fmt.Sprintf("  %d/%d XP\n\n", m.XPIntoLevel, m.XPForNextLevel))

	rows := []struct {
		label string
		value int
	}{
		{"Total XP", m.XP},
		{"Check-ins", m.TotalChecks},
		{"Current streak", m.CurrentStreak},
		{"Perfect-day streak", m.PerfectDayStreak},
		{"Longest streak", m.LongestStreak},
		{"Badges", unlocked},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", r.label, r.value))
	}
	return sb.String()
}

// xpBar renders progress through the current level as a static bar.
func xpBar(m hqprogress.Metrics) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	pct := 0.0
	if m.XPForNextLevel > 0 {
		pct = float64(m.XPIntoLevel) / float64(m.XPForNextLevel)
	}
	return bar.ViewAs(pct)
}

type WeekCmd struct {
	Date string `help:"Any day of the week to show, YYYY-MM-DD (default: this week)."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	snap, err := t.Snapshot(ctx.Ctx())
	if err != nil {
		return err
	}

	day := snap.Today
	if c.Date != "" {
		day, err = calendar.ParseDay(c.Date, snap.Today.Location())
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
	}

	var active []models.Habit
	for _, h := range snap.Habits {
		if h.IsActive() {
			active = append(active, h)
		}
	}
	if len(active) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	fmt.Print(renderWeek(active, hqprogress.NewLog(snap.Checkins), calendar.WeekStart(day), snap.Today))
	return nil
}

// renderWeek draws a Monday-first grid. Days after today are left blank.
func renderWeek(habits []models.Habit, log *hqprogress.Log, start, today time.Time) string {
	days := calendar.WeekDates(start)
	var sb strings.Builder

	sb.WriteString(cli.TitleStyle.Render(fmt.Sprintf("Week of %s", calendar.DayKey(start))))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-20s", ""))
	for _, d := range days {
		sb.WriteString(fmt.Sprintf(" %-3s", d.Format("Mon")[:2]))
	}
	sb.WriteString("\n")

	for _, h := range habits {
		name := []rune(h.Name)
		if len(name) > 19 {
			name = append(name[:18], '…')
		}
		sb.WriteString(fmt.Sprintf("%-20s", string(name)))
		for _, d := range days {
			cell := " "
			if !d.After(today) {
				cell = cli.Mark(log.Done(h.ID, calendar.DayKey(d)))
			}
			sb.WriteString(" " + cell + "  ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
