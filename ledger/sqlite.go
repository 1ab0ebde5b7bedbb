package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/plus3/chaintris/progression"
)

// SQLite is a durable local ledger backed by a single sqlite file.
type SQLite struct {
	db      *sql.DB
	catalog progression.Catalog
	now     func() time.Time
}

// OpenSQLite opens or creates the ledger database at path.
func OpenSQLite(path string, catalog progression.Catalog) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, catalog: catalog, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			player_id TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			total_lines INTEGER NOT NULL DEFAULT 0,
			high_score INTEGER NOT NULL DEFAULT 0,
			missions_completed INTEGER NOT NULL DEFAULT 0,
			last_played TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS mission_progress (
			player_id TEXT NOT NULL REFERENCES profiles(player_id),
			mission_id TEXT NOT NULL,
			progress INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			window_start TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (player_id, mission_id)
		);`,
		`CREATE TABLE IF NOT EXISTS trait_xp (
			player_id TEXT NOT NULL REFERENCES profiles(player_id),
			trait_id TEXT NOT NULL,
			xp INTEGER NOT NULL,
			PRIMARY KEY (player_id, trait_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) GetOrCreateProfile(ctx context.Context, playerID string) (progression.Profile, error) {
	if playerID == "" {
		return progression.Profile{}, ErrNoIdentity
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (player_id) VALUES (?) ON CONFLICT(player_id) DO NOTHING`, playerID); err != nil {
		return progression.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	p := emptyProfile(playerID)
	var lastPlayed string
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, total_lines, high_score, missions_completed, last_played
		 FROM profiles WHERE player_id = ?`, playerID).
		Scan(&p.Stats.GamesPlayed, &p.Stats.TotalLines, &p.Stats.HighScore, &p.Stats.MissionsCompleted, &lastPlayed)
	if err != nil {
		return progression.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if p.Stats.LastPlayed, err = parseTime(lastPlayed); err != nil {
		return progression.Profile{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT mission_id, progress, completed, window_start FROM mission_progress WHERE player_id = ?`, playerID)
	if err != nil {
		return progression.Profile{}, fmt.Errorf("load missions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id          string
			mp          progression.MissionProgress
			windowStart string
		)
		if err := rows.Scan(&id, &mp.Progress, &mp.Completed, &windowStart); err != nil {
			return progression.Profile{}, err
		}
		if mp.WindowStart, err = parseTime(windowStart); err != nil {
			return progression.Profile{}, err
		}
		p.Missions[id] = mp
	}
	if err := rows.Err(); err != nil {
		return progression.Profile{}, err
	}

	traits, err := s.db.QueryContext(ctx, `SELECT trait_id, xp FROM trait_xp WHERE player_id = ?`, playerID)
	if err != nil {
		return progression.Profile{}, fmt.Errorf("load traits: %w", err)
	}
	defer traits.Close()
	for traits.Next() {
		var (
			id string
			xp int
		)
		if err := traits.Scan(&id, &xp); err != nil {
			return progression.Profile{}, err
		}
		p.TraitXP[id] = xp
	}
	return p, traits.Err()
}

func (s *SQLite) ListMissions(context.Context) ([]progression.MissionDef, error) {
	return append([]progression.MissionDef(nil), s.catalog.Missions...), nil
}

func (s *SQLite) ReportMissionProgress(ctx context.Context, playerID, missionID string, progress progression.MissionProgress, _ progression.Event) error {
	def, ok := s.catalog.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission %q: %w", missionID, ErrNotFound)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireProfile(ctx, tx, playerID); err != nil {
			return err
		}

		var (
			stored      progression.MissionProgress
			windowStart string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT progress, completed, window_start FROM mission_progress WHERE player_id = ? AND mission_id = ?`,
			playerID, missionID).Scan(&stored.Progress, &stored.Completed, &windowStart)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		default:
			if stored.WindowStart, err = parseTime(windowStart); err != nil {
				return err
			}
		}

		merged, completed := mergeProgress(stored, progress, def.Target)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mission_progress (player_id, mission_id, progress, completed, window_start)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(player_id, mission_id) DO UPDATE SET
			   progress = excluded.progress,
			   completed = excluded.completed,
			   window_start = excluded.window_start`,
			playerID, missionID, merged.Progress, merged.Completed, formatTime(merged.WindowStart)); err != nil {
			return err
		}
		if !completed {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET missions_completed = missions_completed + 1 WHERE player_id = ?`, playerID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO trait_xp (player_id, trait_id, xp) VALUES (?, ?, ?)
			 ON CONFLICT(player_id, trait_id) DO UPDATE SET xp = xp + excluded.xp`,
			playerID, def.Reward.Trait, def.Reward.XP)
		return err
	})
}

func (s *SQLite) ReportTraitXP(ctx context.Context, playerID, traitID string, delta int) error {
	if err := checkDelta(traitID, delta); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireProfile(ctx, tx, playerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trait_xp (player_id, trait_id, xp) VALUES (?, ?, ?)
			 ON CONFLICT(player_id, trait_id) DO UPDATE SET xp = xp + excluded.xp`,
			playerID, traitID, delta)
		return err
	})
}

func (s *SQLite) ReportGameResult(ctx context.Context, playerID string, result progression.GameResult) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET
		   games_played = games_played + 1,
		   total_lines = total_lines + ?,
		   high_score = MAX(high_score, ?),
		   last_played = ?
		 WHERE player_id = ?`,
		result.Lines, result.Score, formatTime(s.now()), playerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	return nil
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func requireProfile(ctx context.Context, tx *sql.Tx, playerID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE player_id = ?`, playerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ledger: bad timestamp %q: %w", s, err)
	}
	return t, nil
}
