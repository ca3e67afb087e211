package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/raffledraw/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS raffles (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			participants TEXT NOT NULL DEFAULT '[]',
			num_winners INTEGER NOT NULL DEFAULT 1,
			timer_duration INTEGER NOT NULL DEFAULT 5,
			reveal_mode TEXT NOT NULL DEFAULT 'individual',
			remove_winners BOOLEAN NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			results TEXT NOT NULL DEFAULT '[]',
			updated_at INTEGER NOT NULL,
			completed_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raffles_position ON raffles(position)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	defaultSettings := map[string]string{
		"sound_enabled": "true",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// ==================== Raffle Methods ====================

// LoadRaffles returns the saved collection in display order.
// ok is false when the table is empty, i.e. nothing was ever saved.
func (r *Repository) LoadRaffles(ctx context.Context) ([]models.Raffle, bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, participants, num_winners, timer_duration, reveal_mode,
		       remove_winners, status, results, updated_at, completed_at
		FROM raffles
		ORDER BY position`)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var raffles []models.Raffle
	for rows.Next() {
		var (
			raffle           models.Raffle
			participantsJSON string
			resultsJSON      string
			revealMode       string
			status           string
			updatedAt        int64
			completedAt      sql.NullInt64
		)
		if err := rows.Scan(
			&raffle.ID,
			&raffle.Title,
			&participantsJSON,
			&raffle.Config.NumWinners,
			&raffle.Config.TimerDuration,
			&revealMode,
			&raffle.Config.RemoveWinners,
			&status,
			&resultsJSON,
			&updatedAt,
			&completedAt,
		); err != nil {
			return nil, false, err
		}

		if err := json.Unmarshal([]byte(participantsJSON), &raffle.Participants); err != nil {
			return nil, false, fmt.Errorf("raffle %s participants: %w", raffle.ID, err)
		}
		if err := json.Unmarshal([]byte(resultsJSON), &raffle.Results); err != nil {
			return nil, false, fmt.Errorf("raffle %s results: %w", raffle.ID, err)
		}
		raffle.Config.RevealMode = models.RevealMode(revealMode)
		raffle.Status = models.Status(status)
		raffle.UpdatedAt = time.UnixMilli(updatedAt)
		if completedAt.Valid {
			t := time.UnixMilli(completedAt.Int64)
			raffle.CompletedAt = &t
		}

		raffles = append(raffles, raffle)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if len(raffles) == 0 {
		return nil, false, nil
	}
	return raffles, true, nil
}

// SaveRaffles replaces the stored collection with raffles, in order, atomically
func (r *Repository) SaveRaffles(ctx context.Context, raffles []models.Raffle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM raffles`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO raffles (id, position, title, participants, num_winners, timer_duration,
		                     reveal_mode, remove_winners, status, results, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, raffle := range raffles {
		participantsJSON, err := json.Marshal(nonNil(raffle.Participants))
		if err != nil {
			return err
		}
		resultsJSON, err := json.Marshal(nonNil(raffle.Results))
		if err != nil {
			return err
		}

		var completedAt sql.NullInt64
		if raffle.CompletedAt != nil {
			completedAt = sql.NullInt64{Int64: raffle.CompletedAt.UnixMilli(), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			raffle.ID,
			i,
			raffle.Title,
			string(participantsJSON),
			raffle.Config.NumWinners,
			raffle.Config.TimerDuration,
			string(raffle.Config.RevealMode),
			raffle.Config.RemoveWinners,
			string(raffle.Status),
			string(resultsJSON),
			raffle.UpdatedAt.UnixMilli(),
			completedAt,
		); err != nil {
			return fmt.Errorf("save raffle %s: %w", raffle.ID, err)
		}
	}

	return tx.Commit()
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
