package progress

import (
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// ComputeXP awards XPPerCheckin for every completed checkin. Toggling a day
// off lowers XP again; only badge unlocks are permanent.
func ComputeXP(checkins []models.Checkin) int {
	return xpFor(NewLog(checkins))
}

func xpFor(l *Log) int {
	return l.TotalDone() * constants.XPPerCheckin
}

// ComputeLevel maps XP to a level. Level 1 is the floor and there is no cap.
func ComputeLevel(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/constants.XPPerLevel + 1
}

// XPNeededForLevel returns the XP total at which level rolls over.
func XPNeededForLevel(level int) int {
	return level * constants.XPPerLevel
}

// XPWithinCurrentLevel returns progress inside the current level,
// in [0, XPPerLevel) when level == ComputeLevel(xp).
func XPWithinCurrentLevel(xp, level int) int {
	return xp - (level-1)*constants.XPPerLevel
}
