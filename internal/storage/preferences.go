package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meur/buildforge/internal/models"
)

// --- Preferences ---

// GetPreferences returns a user's view settings, or the defaults if none are stored
func (s *Store) GetPreferences(ctx context.Context, userID string) (models.Preferences, error) {
	prefs := models.DefaultPreferences(userID)
	err := s.db.QueryRowContext(ctx, `
		SELECT prefers_ap_view FROM preferences WHERE user_id = ?
	`, userID).Scan(&prefs.PrefersAPView)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs, nil
	}
	if err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

// SetPreferences stores a user's view settings
func (s *Store) SetPreferences(ctx context.Context, prefs models.Preferences) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, prefers_ap_view, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			prefers_ap_view = excluded.prefers_ap_view,
			updated_at = excluded.updated_at
	`, prefs.UserID, prefs.PrefersAPView, time.Now().UTC())
	return err
}
