package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progress"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Mark    HabitMarkCmd    `cmd:"" help:"Toggle a habit's completion for a day."`
	Today   HabitTodayCmd   `cmd:"" help:"Show today's habit status."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit log (ASCII history)."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, badges, err := t.AddHabit(ctx.Ctx(), c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s\n", habit.Name)
	cli.PrintUnlocks(badges)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habits, err := t.Habits(ctx.Ctx(), c.Archived, c.Deleted)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	for _, h := range habits {
		fmt.Printf("%s%s\n", h.Name, habitStatus(h))
	}
	return nil
}

func habitStatus(h models.Habit) string {
	switch {
	case h.DeletedAt != nil:
		return cli.MutedStyle.Render(" [DELETED]")
	case h.ArchivedAt != nil:
		return cli.MutedStyle.Render(" [ARCHIVED]")
	default:
		return ""
	}
}

type HabitMarkCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Note string `help:"Optional note for this entry." default:""`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	res, err := t.Toggle(ctx.Ctx(), c.Name, c.Date, c.Note)
	if err != nil {
		return err
	}

	if res.Done {
		fmt.Printf("%s Marked habit %q for %s\n", cli.DoneStyle.Render("✓"), res.Habit.Name, res.Day)
	} else {
		fmt.Printf("Unmarked habit %q for %s\n", res.Habit.Name, res.Day)
	}
	if res.LeveledUp() {
		fmt.Println(cli.UnlockStyle.Render(fmt.Sprintf("⬆ Level up! You reached level %d", res.LevelAfter)))
	}
	cli.PrintUnlocks(res.Unlocked)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	snap, err := t.Snapshot(ctx.Ctx())
	if err != nil {
		return err
	}

	active := activeHabits(snap.Habits)
	if len(active) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := calendar.DayKey(snap.Today)
	entries, err := t.EntriesForDay(ctx.Ctx(), today)
	if err != nil {
		return err
	}
	fmt.Print(renderToday(active, entries, today))
	fmt.Printf("Streak: %d days  Perfect days: %d\n", snap.Metrics.CurrentStreak, snap.Metrics.PerfectDayStreak)
	return nil
}

// renderToday lists habits with a checkbox and the day's note, if any.
func renderToday(habits []models.Habit, entries []models.HabitEntry, day string) string {
	byHabit := make(map[string]models.HabitEntry, len(entries))
	for _, e := range entries {
		byHabit[e.HabitID] = e
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Habits for %s:\n\n", day))
	recorded := 0
	for _, h := range habits {
		e, ok := byHabit[h.ID]
		if !ok {
			sb.WriteString("[ ] " + h.Name + "\n")
			continue
		}
		recorded++
		sb.WriteString(cli.DoneStyle.Render("[x]") + " " + h.Name)
		if e.Note != "" {
			sb.WriteString(" " + cli.MutedStyle.Render("("+e.Note+")"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\nRecorded: %d/%d\n", recorded, len(habits)))
	return sb.String()
}

func activeHabits(habits []models.Habit) []models.Habit {
	var active []models.Habit
	for _, h := range habits {
		if h.IsActive() {
			active = append(active, h)
		}
	}
	return active
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

const nameWidth = 20

func (c *HabitLogCmd) Validate() error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("--days must be between 1 and 366, got %d", c.Days)
	}
	return nil
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := t.Habit(ctx.Ctx(), c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		if selected, err = t.Habits(ctx.Ctx(), false, false); err != nil {
			return err
		}
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := t.Today()
	startDay := calendar.DayKey(calendar.AddDays(today, -(c.Days - 1)))
	endDay := calendar.DayKey(today)
	var entries []models.HabitEntry
	for _, h := range selected {
		got, err := t.EntriesForHabit(ctx.Ctx(), h.ID, startDay, endDay)
		if err != nil {
			return err
		}
		entries = append(entries, got...)
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(renderLog(selected, progress.NewLog(models.EntriesToCheckins(entries)), today, c.Days))
	return nil
}

// renderLog draws one row per habit and one column per day, oldest first.
func renderLog(habits []models.Habit, log *progress.Log, today time.Time, days int) string {
	start := calendar.AddDays(today, -(days - 1))
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-*s", nameWidth, "Habit"))
	for i := 0; i < days; i++ {
		sb.WriteString(fmt.Sprintf(" %5s", calendar.AddDays(start, i).Format("01/02")))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", nameWidth+6*days))
	sb.WriteString("\n")

	for _, h := range habits {
		sb.WriteString(truncate(h.Name, nameWidth))
		for i := 0; i < days; i++ {
			sb.WriteString("  ")
			sb.WriteString(cli.Mark(log.Done(h.ID, calendar.DayKey(calendar.AddDays(start, i)))))
			sb.WriteString("   ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(name string, width int) string {
	r := []rune(name)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(r))
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if c.Unarchive {
		badges, err := t.UnarchiveHabit(ctx.Ctx(), c.Name)
		if err != nil {
			return err
		}
		fmt.Printf("Unarchived habit: %s\n", c.Name)
		cli.PrintUnlocks(badges)
		ctx.PerformAutomaticBackup()
		return nil
	}

	badges, err := t.ArchiveHabit(ctx.Ctx(), c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", c.Name)
	cli.PrintUnlocks(badges)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Ask(
			fmt.Sprintf("Delete habit %q?", c.Name),
			"Its history stops counting toward XP and streaks until it is restored.",
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	badges, err := t.DeleteHabit(ctx.Ctx(), c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", c.Name)
	fmt.Println("(This is a soft delete. Use 'habitquest habit restore' to undo)")
	cli.PrintUnlocks(badges)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	badges, err := t.RestoreHabit(ctx.Ctx(), c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", c.Name)
	cli.PrintUnlocks(badges)
	ctx.PerformAutomaticBackup()
	return nil
}
