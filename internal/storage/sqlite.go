// Package storage provides SQLite-based persistence for game replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// A replay is a seed plus the journal of accepted commands, enough to
// re-simulate a game. High scores are never stored.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/world"
)

// ErrAmbiguousID is returned when an ID prefix matches more than one replay.
var ErrAmbiguousID = errors.New("storage: ambiguous replay id")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Replay is a recorded game.
type Replay struct {
	ID         string
	Seed       int64
	Rules      world.Rules // zero for replays saved before rules were kept
	Ticks      uint64
	Score      int // score on the final tick
	IntervalMS int
	Source     string // "play", "ssh" or "simulate"
	Pilot      string // autopilot name, empty for human games
	Inputs     []driver.Entry
	NumInputs  int // filled by listings, which leave Inputs empty
	CreatedAt  time.Time
}

// Journal converts the replay back into a driver journal.
func (r Replay) Journal() driver.Journal {
	return driver.Journal{
		Seed:    r.Seed,
		Rules:   r.Rules,
		Ticks:   r.Ticks,
		Entries: append([]driver.Entry(nil), r.Inputs...),
	}
}

// ReplayFromJournal builds an unsaved replay.
func ReplayFromJournal(j driver.Journal, score int) Replay {
	return Replay{
		Seed:   j.Seed,
		Rules:  j.Rules,
		Ticks:  j.Ticks,
		Score:  score,
		Inputs: append([]driver.Entry(nil), j.Entries...),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; parallel simulations share this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL,
			interval_ms INTEGER NOT NULL DEFAULT 150,
			source TEXT NOT NULL DEFAULT 'play',
			pilot TEXT NOT NULL DEFAULT '',
			rules TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);

		CREATE TABLE IF NOT EXISTS replay_inputs (
			replay_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			kind TEXT NOT NULL,
			dir TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (replay_id, seq)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before rules were recorded lack the column.
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('replays') WHERE name = 'rules'`,
	).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.db.Exec(`ALTER TABLE replays ADD COLUMN rules TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
	}
	return nil
}

// encodeRules stores rules as YAML. Zero rules are stored as "".
func encodeRules(r world.Rules) (string, error) {
	if r == (world.Rules{}) {
		return "", nil
	}
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode rules: %w", err)
	}
	return string(out), nil
}

func decodeRules(s string) (world.Rules, error) {
	var r world.Rules
	if s == "" {
		return r, nil
	}
	if err := yaml.Unmarshal([]byte(s), &r); err != nil {
		return r, fmt.Errorf("storage: bad rules in replay: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores r and its inputs in one transaction. A new UUID is
// assigned when r.ID is empty. Returns the replay ID.
func (s *Store) SaveReplay(ctx context.Context, r Replay) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Source == "" {
		r.Source = "play"
	}
	if r.IntervalMS == 0 {
		r.IntervalMS = int(driver.DefaultInterval / time.Millisecond)
	}

	rules, err := encodeRules(r.Rules)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO replays (id, seed, ticks, score, interval_ms, source, pilot, rules)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Seed, int64(r.Ticks), r.Score, r.IntervalMS, r.Source, r.Pilot, rules,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save replay: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO replay_inputs (replay_id, seq, tick, kind, dir) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare input insert: %w", err)
	}
	defer stmt.Close()

	for i, in := range r.Inputs {
		dir := ""
		if in.Cmd.Kind == driver.CmdDirection {
			dir = in.Cmd.Dir.String()
		}
		if _, err := stmt.ExecContext(ctx, r.ID, i, int64(in.Tick), in.Cmd.Kind.String(), dir); err != nil {
			return "", fmt.Errorf("storage: cannot save input %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit replay: %w", err)
	}
	return r.ID, nil
}

// ReplayByID loads a replay with its inputs. id may be a unique prefix.
// Returns nil, nil when nothing matches.
func (s *Store) ReplayByID(ctx context.Context, id string) (*Replay, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil || fullID == "" {
		return nil, err
	}

	var r Replay
	var ticks int64
	var rules string
	var createdAt any
	err = s.db.QueryRowContext(ctx,
		`SELECT id, seed, ticks, score, interval_ms, source, pilot, rules, created_at
		 FROM replays WHERE id = ?`,
		fullID,
	).Scan(&r.ID, &r.Seed, &ticks, &r.Score, &r.IntervalMS, &r.Source, &r.Pilot, &rules, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	r.Ticks = uint64(ticks)
	r.CreatedAt = parseTime(createdAt)
	if r.Rules, err = decodeRules(rules); err != nil {
		return nil, err
	}

	inputs, err := s.inputs(ctx, fullID)
	if err != nil {
		return nil, err
	}
	r.Inputs = inputs
	r.NumInputs = len(inputs)
	return &r, nil
}

// resolveID expands a prefix to a full ID. Returns "" when nothing matches.
func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM replays WHERE substr(id, 1, ?) = ? LIMIT 2`,
		len(prefix), prefix,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot look up replay id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
	}
}

func (s *Store) inputs(ctx context.Context, id string) ([]driver.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, kind, dir FROM replay_inputs WHERE replay_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query inputs: %w", err)
	}
	defer rows.Close()

	var entries []driver.Entry
	for rows.Next() {
		var tick int64
		var kind, dir string
		if err := rows.Scan(&tick, &kind, &dir); err != nil {
			return nil, fmt.Errorf("storage: cannot scan input: %w", err)
		}
		cmd, err := decodeCommand(kind, dir)
		if err != nil {
			return nil, err
		}
		entries = append(entries, driver.Entry{Tick: uint64(tick), Cmd: cmd})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

func decodeCommand(kind, dir string) (driver.Command, error) {
	switch kind {
	case driver.CmdRestart.String():
		return driver.Restart(), nil
	case driver.CmdDirection.String():
		d, ok := world.ParseDirection(dir)
		if !ok {
			return driver.Command{}, fmt.Errorf("storage: bad direction %q in journal", dir)
		}
		return driver.Turn(d), nil
	default:
		return driver.Command{}, fmt.Errorf("storage: bad command kind %q in journal", kind)
	}
}

// RecentReplays lists replays newest first, without their inputs.
func (s *Store) RecentReplays(ctx context.Context, limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.seed, r.ticks, r.score, r.interval_ms, r.source, r.pilot, r.created_at,
		        (SELECT COUNT(*) FROM replay_inputs i WHERE i.replay_id = r.id)
		 FROM replays r
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var out []Replay
	for rows.Next() {
		var r Replay
		var ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &ticks, &r.Score, &r.IntervalMS, &r.Source, &r.Pilot, &createdAt, &r.NumInputs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteReplay removes a replay and its inputs. Deleting a missing
// replay is not an error.
func (s *Store) DeleteReplay(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM replay_inputs WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete inputs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM replays WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
