package db

import (
	"context"

	app "github.com/Bhagya-2005/ai-study-mentor"
)

// HistoryStore stores the problems a user submitted and what was generated
// for them.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new instance of a HistoryStore.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append inserts one history entry for the user.
func (hs *HistoryStore) Append(ctx context.Context, userID int64, input, output string) (*app.HistoryEntry, error) {
	res, err := hs.db.db.ExecContext(ctx,
		`INSERT INTO history (user_id, input_text, output_text) VALUES (?, ?, ?)`,
		userID, input, output)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &app.HistoryEntry{ID: id, UserID: userID, Input: input, Output: output}, nil
}

// List returns the user's entries in the order they were added.
func (hs *HistoryStore) List(ctx context.Context, userID int64) ([]app.HistoryEntry, error) {
	rows, err := hs.db.db.QueryContext(ctx,
		`SELECT id, user_id, input_text, output_text FROM history WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []app.HistoryEntry{}
	for rows.Next() {
		var e app.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Input, &e.Output); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear deletes every entry of the user.
func (hs *HistoryStore) Clear(ctx context.Context, userID int64) error {
	_, err := hs.db.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = ?`, userID)
	return err
}
