package badges

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/models"
)

type BadgesCmd struct {
	List    BadgesListCmd    `cmd:"" help:"List badges." default:"1"`
	Check   BadgesCheckCmd   `cmd:"" help:"Re-evaluate achievements now."`
	Equip   BadgesEquipCmd   `cmd:"" help:"Show an unlocked badge as your title."`
	Unequip BadgesUnequipCmd `cmd:"" help:"Clear the equipped badge."`
}

type BadgesListCmd struct {
	Category string `help:"Only show one category (beginner, level, streak, completion, habit, special)."`
	Locked   bool   `help:"Include badges not yet unlocked."`
}

func (c *BadgesListCmd) Validate() error {
	if c.Category == "" {
		return nil
	}
	if _, ok := models.ParseBadgeCategory(c.Category); !ok {
		return fmt.Errorf("unknown category %q", c.Category)
	}
	return nil
}

func (c *BadgesListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	unlocks, err := t.Unlocked(ctx.Ctx())
	if err != nil {
		return err
	}
	owned := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		owned[u.BadgeID] = true
	}

	categories := models.Categories
	if c.Category != "" {
		cat, _ := models.ParseBadgeCategory(c.Category)
		categories = []models.BadgeCategory{cat}
	}

	fmt.Printf("Badges unlocked: %d/%d\n", countKnown(owned), achievements.Count())
	fmt.Print(renderBadges(categories, owned, c.Locked))
	return nil
}

// countKnown ignores ledger rows for ids no longer in the catalog.
func countKnown(owned map[string]bool) int {
	n := 0
	for id := range owned {
		if _, ok := achievements.Lookup(id); ok {
			n++
		}
	}
	return n
}

func renderBadges(categories []models.BadgeCategory, owned map[string]bool, showLocked bool) string {
	var sb strings.Builder
	for _, cat := range categories {
		var lines []string
		for _, b := range achievements.ByCategory(cat) {
			if owned[b.ID] || showLocked {
				lines = append(lines, "  "+cli.BadgeLine(b, owned[b.ID]))
			}
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(cli.TitleStyle.Render(strings.ToUpper(string(cat))))
		sb.WriteString("\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

type BadgesCheckCmd struct{}

func (c *BadgesCheckCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	badges, err := t.Refresh(ctx.Ctx())
	if err != nil {
		return err
	}
	if len(badges) == 0 {
		fmt.Println("No new badges.")
		return nil
	}
	cli.PrintUnlocks(badges)
	return nil
}

type BadgesEquipCmd struct {
	ID string `arg:"" help:"Badge id, e.g. streak_7."`
}

func (c *BadgesEquipCmd) Run(ctx *cli.Context) error {
	b, ok := achievements.Lookup(c.ID)
	if !ok {
		return fmt.Errorf("unknown badge %q", c.ID)
	}
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := t.Equip(ctx.Ctx(), b.ID); err != nil {
		return err
	}
	fmt.Printf("Equipped %s %s\n", b.Icon, b.Name)
	return nil
}

type BadgesUnequipCmd struct{}

func (c *BadgesUnequipCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := t.Unequip(ctx.Ctx()); err != nil {
		return err
	}
	fmt.Println("Badge unequipped.")
	return nil
}
