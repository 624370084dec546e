package sqlite

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

// AddUnlocks records ids in the ledger. Existing rows keep their original
// unlock time.
func (s *Store) AddUnlocks(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO unlocked_badges (badge_id, unlocked_at) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	stamp := storage.FormatTime(at)
	for _, id := range ids {
		if _, err := stmt.Exec(id, stamp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetUnlocks() ([]models.UnlockedBadge, error) {
	rows, err := s.db.Query("SELECT badge_id, unlocked_at FROM unlocked_badges ORDER BY unlocked_at, badge_id")
	if err != nil {
		return nil, err
	}
	return storage.CollectUnlocks(rows)
}
