package achievements

import (
	"testing"

	"github.com/julianstephens/habitquest/internal/models"
)

func TestCatalogSize(t *testing.T) {
	if got := Count(); got != 93 {
		t.Errorf("Count() = %d, want 93", got)
	}
	if got := len(All()); got != Count() {
		t.Errorf("len(All()) = %d, want %d", got, Count())
	}
}

func TestLookup(t *testing.T) {
	b, ok := Lookup("streak_7")
	if !ok {
		t.Fatal("Lookup(streak_7) not found")
	}
	if b.Category != models.CategoryStreak {
		t.Errorf("streak_7 category = %q, want %q", b.Category, models.CategoryStreak)
	}
	if b.Name == "" || b.Icon == "" || b.Description == "" {
		t.Errorf("streak_7 has empty fields: %+v", b)
	}

	if _, ok := Lookup("no_such_badge"); ok {
		t.Error("Lookup(no_such_badge) should not be found")
	}
}

func TestByCategoryPreservesOrder(t *testing.T) {
	total := 0
	for _, c := range models.Categories {
		badges := ByCategory(c)
		total += len(badges)
		for _, b := range badges {
			if b.Category != c {
				t.Errorf("ByCategory(%q) returned %s in category %q", c, b.ID, b.Category)
			}
		}
	}
	if total != Count() {
		t.Errorf("categories cover %d badges, want %d", total, Count())
	}

	levels := ByCategory(models.CategoryLevel)
	if len(levels) == 0 || levels[0].ID != "level_2" {
		t.Fatalf("first level badge = %v, want level_2", levels)
	}
	last := -1
	for _, b := range levels {
		i := byID[b.ID]
		if i <= last {
			t.Errorf("ByCategory out of catalog order at %s", b.ID)
		}
		last = i
	}
}

func TestAllReturnsCopy(t *testing.T) {
	badges := All()
	badges[0].Name = "changed"
	if b, _ := Lookup(badges[0].ID); b.Name == "changed" {
		t.Error("mutating All() result changed the catalog")
	}
}

func TestEveryEvaluatedBadgeHasRule(t *testing.T) {
	unruled := map[string]bool{"team_player": true, "mentor": true}
	for _, b := range All() {
		_, ok := ruleByID[b.ID]
		if unruled[b.ID] && ok {
			t.Errorf("%s should not have a rule", b.ID)
		}
		if !unruled[b.ID] && !ok {
			t.Errorf("%s has no rule", b.ID)
		}
	}
}

func TestBadgesDropsUnknown(t *testing.T) {
	got := Badges([]string{"first_checkin", "bogus", "streak_3"})
	if len(got) != 2 || got[0].ID != "first_checkin" || got[1].ID != "streak_3" {
		t.Errorf("Badges() = %+v", got)
	}
}
