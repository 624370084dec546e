package achievements

import "github.com/julianstephens/habitquest/internal/models"

func badge(id, name, desc, icon string, category models.BadgeCategory) models.Badge {
	return models.Badge{ID: id, Name: name, Description: desc, Icon: icon, Category: category}
}

const (
	beginner   = models.CategoryBeginner
	streak     = models.CategoryStreak
	level      = models.CategoryLevel
	habit      = models.CategoryHabit
	completion = models.CategoryCompletion
	special    = models.CategorySpecial
)

// catalog is the ordered badge table. Order is display order and the order
// in which Evaluate reports new unlocks.
var catalog = []models.Badge{
	// Beginner
	badge("first_checkin", "First Step", "Checked in for the first time", "🎯", beginner),
	badge("create_3_habits", "Habit Collector", "Created 3 habits", "📝", beginner),
	badge("day_complete", "Perfect Day", "Completed every habit today", "⭐", beginner),
	badge("level_2", "Level 2", "Reached level 2", "🎖️", level),

	// Level
	badge("level_5", "Level 5", "Reached level 5", "🏅", level),
	badge("level_10", "Level 10", "Reached level 10", "🎗️", level),
	badge("level_15", "Level 15", "Reached level 15", "🏆", level),
	badge("level_20", "Level 20", "Reached level 20", "👑", level),
	badge("level_25", "Level 25", "Reached level 25", "💎", level),
	badge("level_30", "Level 30", "Reached level 30", "⚡", level),
	badge("level_50", "Level 50", "Reached level 50", "🌟", level),
	badge("level_75", "Level 75", "Reached level 75", "🔥", level),
	badge("level_100", "Level 100", "Reached level 100", "🚀", level),

	// Streak
	badge("streak_3", "3-Day Streak", "Kept a habit going 3 days in a row", "🔗", streak),
	badge("streak_7", "1-Week Streak", "Kept a habit going 7 days in a row", "📅", streak),
	badge("streak_14", "2-Week Streak", "Kept a habit going 14 days in a row", "📆", streak),
	badge("streak_30", "30-Day Streak", "Kept a habit going 30 days in a row", "🎊", streak),
	badge("streak_50", "50-Day Streak", "Kept a habit going 50 days in a row", "🎉", streak),
	badge("streak_100", "100-Day Streak", "Kept a habit going 100 days in a row", "💯", streak),
	badge("streak_200", "200-Day Streak", "Kept a habit going 200 days in a row", "🌈", streak),
	badge("streak_365", "1-Year Streak", "Kept a habit going 365 days in a row", "🎆", streak),
	badge("streak_500", "500-Day Streak", "Kept a habit going 500 days in a row", "🏰", streak),
	badge("streak_1000", "1000-Day Streak", "Kept a habit going 1000 days in a row", "🗿", streak),

	// Total checks
	badge("check_10", "10 Checks", "Logged 10 check-ins in total", "✅", completion),
	badge("check_50", "50 Checks", "Logged 50 check-ins in total", "☑️", completion),
	badge("check_100", "100 Checks", "Logged 100 check-ins in total", "✔️", completion),
	badge("check_250", "250 Checks", "Logged 250 check-ins in total", "💚", completion),
	badge("check_500", "500 Checks", "Logged 500 check-ins in total", "💙", completion),
	badge("check_1000", "1000 Checks", "Logged 1000 check-ins in total", "💜", completion),
	badge("check_2000", "2000 Checks", "Logged 2000 check-ins in total", "🖤", completion),
	badge("check_5000", "5000 Checks", "Logged 5000 check-ins in total", "🤍", completion),

	// Habit count
	badge("habit_5", "Habit Master", "Managing 5 habits", "📚", habit),
	badge("habit_10", "Habit Expert", "Managing 10 habits", "📖", habit),
	badge("habit_15", "Habit Sage", "Managing 15 habits", "🧙", habit),
	badge("habit_20", "Habit Legend", "Managing 20 habits", "🦸", habit),

	// Perfect-day streaks
	badge("perfect_7", "Perfect Week", "Completed every habit for 7 days straight", "🌟", completion),
	badge("perfect_30", "Perfect Month", "Completed every habit for 30 days straight", "✨", completion),
	badge("perfect_100", "Perfect 100", "Completed every habit for 100 days straight", "🌠", completion),

	// Time of day
	badge("early_bird", "Early Bird", "Checked in before 6 AM", "🌅", special),
	badge("night_owl", "Night Owl", "Checked in after 10 PM", "🌙", special),

	// Comebacks
	badge("comeback", "Comeback", "Came back after a 7-day break", "🔄", special),
	badge("never_give_up", "Never Give Up", "Came back after a 30-day break", "💪", special),

	// Weekday completion
	badge("monday_complete", "Monday Master", "Completed every habit on a Monday", "📅", completion),
	badge("friday_complete", "Friday Master", "Completed every habit on a Friday", "🎉", completion),
	badge("weekend_warrior", "Weekend Warrior", "Completed every habit on a weekend day", "⚔️", completion),

	// Month completion
	badge("january_complete", "January Master", "Completed every habit every day of January", "🎍", completion),
	badge("february_complete", "February Master", "Completed every habit every day of February", "💝", completion),
	badge("march_complete", "March Master", "Completed every habit every day of March", "🌸", completion),
	badge("april_complete", "April Master", "Completed every habit every day of April", "🌷", completion),
	badge("may_complete", "May Master", "Completed every habit every day of May", "🎏", completion),
	badge("june_complete", "June Master", "Completed every habit every day of June", "☂️", completion),
	badge("july_complete", "July Master", "Completed every habit every day of July", "🎋", completion),
	badge("august_complete", "August Master", "Completed every habit every day of August", "🌻", completion),
	badge("september_complete", "September Master", "Completed every habit every day of September", "🍂", completion),
	badge("october_complete", "October Master", "Completed every habit every day of October", "🎃", completion),
	badge("november_complete", "November Master", "Completed every habit every day of November", "🍁", completion),
	badge("december_complete", "December Master", "Completed every habit every day of December", "🎄", completion),

	// Season completion
	badge("spring_master", "Spring Champion", "Completed every day of spring (Mar-May)", "🌺", completion),
	badge("summer_master", "Summer Champion", "Completed every day of summer (Jun-Aug)", "☀️", completion),
	badge("autumn_master", "Autumn Champion", "Completed every day of autumn (Sep-Nov)", "🍄", completion),
	badge("winter_master", "Winter Champion", "Completed every day of winter (Dec-Feb)", "⛄", completion),

	// Year completion
	badge("year_2026_complete", "2026 Conquered", "Completed every habit every day of 2026", "🎊", completion),
	badge("year_2027_complete", "2027 Conquered", "Completed every habit every day of 2027", "🎊", completion),

	// Many at once
	badge("triple_threat", "Triple Threat", "Checked 3 habits in one day", "3️⃣", special),
	badge("five_star", "Five Star", "Checked 5 habits in one day", "5️⃣", special),
	badge("ten_power", "Ten Power", "Checked 10 habits in one day", "🔟", special),

	// Routines
	badge("morning_routine", "Morning Routine", "Checked in before 7 AM for 7 days straight", "☕", special),
	badge("lunch_warrior", "Lunchtime", "Checked in between 12 and 1 PM for 7 days straight", "🍱", special),
	badge("evening_ritual", "Evening Ritual", "Checked in between 5 and 7 PM for 7 days straight", "🌆", special),
	badge("night_routine", "Night Routine", "Checked in between 9 and 11 PM for 7 days straight", "🌃", special),

	// XP
	badge("xp_100", "XP 100", "Earned 100 XP", "💠", level),
	badge("xp_500", "XP 500", "Earned 500 XP", "💎", level),
	badge("xp_1000", "XP 1000", "Earned 1000 XP", "💍", level),
	badge("xp_5000", "XP 5000", "Earned 5000 XP", "👑", level),
	badge("xp_10000", "XP 10000", "Earned 10000 XP", "🏰", level),

	// Consistency
	badge("consistency_master", "Consistency Master", "At least one check-in every day for 30 days", "🎯", streak),
	badge("dedication", "Dedication", "At least one check-in every day for 60 days", "🙏", streak),
	badge("commitment", "Commitment", "At least one check-in every day for 90 days", "🤝", streak),

	// Recovery
	badge("bouncer", "Bounce Back", "Kept going after breaking a streak 3 times", "🔄", special),
	badge("phoenix", "Phoenix", "Kept going after breaking a streak 5 times", "🦅", special),

	// Speed
	badge("speed_demon", "Speed Demon", "Checked every habit during the 6 AM hour", "⚡", special),
	badge("quick_start", "Quick Start", "Checked every habit within an hour of starting the day", "🏃", special),

	// Social. No rule evaluates these.
	badge("team_player", "Team Player", "Invited a friend", "👥", special),
	badge("mentor", "Mentor", "Invited 3 friends", "👨‍🏫", special),

	// Perfection
	badge("perfectionist", "Perfectionist", "Completed every habit for 14 days straight", "💯", completion),
	badge("flawless", "Flawless", "Completed every habit for 21 days straight", "✨", completion),
	badge("unstoppable", "Unstoppable", "Completed every habit for 30 days straight", "🛡️", completion),

	// Variety
	badge("variety_seeker", "Variety Seeker", "Created 5 different habits", "🎨", habit),
	badge("jack_of_all", "Jack of All Trades", "Created 10 different habits", "🎭", habit),

	// Long term
	badge("marathon_runner", "Marathon Runner", "Reached a 180-day streak", "🏃‍♂️", streak),
	badge("iron_will", "Iron Will", "Reached a 250-day streak", "🗡️", streak),
	badge("legendary", "Legendary", "Reached a 500-day streak", "🦁", streak),
	badge("immortal", "Immortal", "Reached a 730-day streak", "♾️", streak),
}

var byID, byCategory = indexCatalog(catalog)

func indexCatalog(badges []models.Badge) (map[string]int, map[models.BadgeCategory][]int) {
	ids := make(map[string]int, len(badges))
	categories := make(map[models.BadgeCategory][]int)
	for i, b := range badges {
		if _, dup := ids[b.ID]; dup {
			panic("duplicate badge id in catalog: " + b.ID)
		}
		ids[b.ID] = i
		categories[b.Category] = append(categories[b.Category], i)
	}
	return ids, categories
}

// All returns a copy of the catalog in display order.
func All() []models.Badge {
	out := make([]models.Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the badge with the given id.
func Lookup(id string) (models.Badge, bool) {
	i, ok := byID[id]
	if !ok {
		return models.Badge{}, false
	}
	return catalog[i], true
}

// ByCategory returns the badges of one category in catalog order.
func ByCategory(category models.BadgeCategory) []models.Badge {
	idx := byCategory[category]
	out := make([]models.Badge, 0, len(idx))
	for _, i := range idx {
		out = append(out, catalog[i])
	}
	return out
}

// Count returns the number of badges in the catalog.
func Count() int {
	return len(catalog)
}
