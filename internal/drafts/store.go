// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package drafts archives generation runs in SQLite so that posts can be
// listed, exported, or turned into a calendar after the fact. The archive
// is write-once per run; generation never reads from it.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/social-agent/pkg/types"
)

const dbFile = "drafts.db"

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Store manages the drafts SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the archive at cfg.DraftsDir/drafts.db and
// creates the schema if it does not exist.
func NewStore(cfg types.DraftsConfig) (*Store, error) {
	dir := cfg.DraftsDir
	if dir == "" {
		dir = "drafts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating drafts directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the archive directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			brand_voice TEXT,
			tone TEXT,
			variations INTEGER NOT NULL,
			platforms TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			platform_pos INTEGER NOT NULL,
			variation INTEGER NOT NULL,
			caption TEXT NOT NULL,
			hashtags TEXT,
			cta TEXT,
			failed INTEGER NOT NULL DEFAULT 0,
			UNIQUE (run_id, platform, variation)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_run_id ON posts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores a campaign and its result under a new run ID.
func (s *Store) SaveRun(ctx context.Context, campaign types.Campaign, result types.GenerationResult, createdAt time.Time) (types.Run, error) {
	run := types.Run{
		ID:        uuid.NewString(),
		CreatedAt: createdAt.UTC(),
		Campaign:  campaign,
		Result:    result,
	}

	platformsJSON, err := json.Marshal(campaign.Platforms)
	if err != nil {
		return types.Run{}, fmt.Errorf("encoding platforms: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, brand_voice, tone, variations, platforms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, campaign.Topic, campaign.BrandVoice, campaign.Tone, campaign.Variations,
		string(platformsJSON), run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return types.Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (run_id, platform, platform_pos, variation, caption, hashtags, cta, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return types.Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for platform, items := range result {
		pos := platformPosition(campaign.Platforms, platform)
		for i, item := range items {
			_, err := stmt.ExecContext(ctx,
				run.ID, platform, pos, i+1,
				item.Caption, item.Hashtags, item.CTA, item.IsError(),
			)
			if err != nil {
				return types.Run{}, fmt.Errorf("inserting post %s/%d: %w", platform, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// platformPosition returns the index of platform's first occurrence, or
// len(platforms) when absent.
func platformPosition(platforms []string, platform string) int {
	for i, p := range platforms {
		if p == platform {
			return i
		}
	}
	return len(platforms)
}

// LoadRun returns the stored run with id, or ErrRunNotFound.
func (s *Store) LoadRun(ctx context.Context, id string) (types.Run, error) {
	var (
		run           types.Run
		brandVoice    sql.NullString
		tone          sql.NullString
		platformsJSON string
		createdAt     string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, brand_voice, tone, variations, platforms, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Campaign.Topic, &brandVoice, &tone, &run.Campaign.Variations, &platformsJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return types.Run{}, fmt.Errorf("looking up run: %w", err)
	}

	run.Campaign.BrandVoice = brandVoice.String
	run.Campaign.Tone = tone.String
	if err := json.Unmarshal([]byte(platformsJSON), &run.Campaign.Platforms); err != nil {
		return types.Run{}, fmt.Errorf("decoding platforms of run %s: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return types.Run{}, fmt.Errorf("decoding created_at of run %s: %w", id, err)
	}

	run.Result = make(types.GenerationResult, len(run.Campaign.Platforms))
	for _, p := range run.Campaign.Platforms {
		run.Result[p] = []types.PostRecord{}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, caption, hashtags, cta FROM posts WHERE run_id = ? ORDER BY platform_pos, platform, variation`, id)
	if err != nil {
		return types.Run{}, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			platform string
			rec      types.PostRecord
			hashtags sql.NullString
			cta      sql.NullString
		)
		if err := rows.Scan(&platform, &rec.Caption, &hashtags, &cta); err != nil {
			return types.Run{}, fmt.Errorf("scanning post: %w", err)
		}
		rec.Hashtags = hashtags.String
		rec.CTA = cta.String
		run.Result[platform] = append(run.Result[platform], rec)
	}
	if err := rows.Err(); err != nil {
		return types.Run{}, err
	}
	return run, nil
}

// LatestRunID returns the ID of the most recently created run, or
// ErrRunNotFound when the archive is empty.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: archive is empty", ErrRunNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("looking up latest run: %w", err)
	}
	return id, nil
}

// DeleteRun removes a run and its posts.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
