// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drafts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/social-agent/pkg/types"
)

// QueryOptions holds parameters for post queries.
type QueryOptions struct {
	// RunID restricts results to one run.
	RunID string

	// Platform restricts results to one platform (exact match).
	Platform string

	// Query is a case-insensitive substring matched against caption,
	// hashtags and CTA.
	Query string

	// IncludeFailed keeps error sentinel records in the results.
	IncludeFailed bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// PostResult is a stored post with its run context.
type PostResult struct {
	types.PostRecord `yaml:",inline"`
	RunID            string    `json:"run_id" yaml:"run_id"`
	Topic            string    `json:"topic" yaml:"topic"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	Platform         string    `json:"platform" yaml:"platform"`
	Variation        int       `json:"variation" yaml:"variation"`
	Failed           bool      `json:"failed" yaml:"failed"`
}

// RunSummary describes one archived run.
type RunSummary struct {
	ID        string    `json:"id" yaml:"id"`
	Topic     string    `json:"topic" yaml:"topic"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Posts     int       `json:"posts" yaml:"posts"`
	Failed    int       `json:"failed" yaml:"failed"`
}

// likeEscaper escapes LIKE wildcards so Query matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Retrieve returns posts matching opts, newest run first, then in platform
// and variation order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]PostResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT p.run_id, r.topic, r.created_at, p.platform, p.variation,
			p.caption, p.hashtags, p.cta, p.failed
		FROM posts p
		JOIN runs r ON r.id = p.run_id
		WHERE 1=1`)

	if opts.RunID != "" {
		qb.WriteString(` AND p.run_id = ?`)
		args = append(args, opts.RunID)
	}
	if opts.Platform != "" {
		qb.WriteString(` AND p.platform = ?`)
		args = append(args, opts.Platform)
	}
	if !opts.IncludeFailed {
		qb.WriteString(` AND p.failed = 0`)
	}
	if opts.Query != "" {
		pattern := "%" + likeEscaper.Replace(opts.Query) + "%"
		qb.WriteString(` AND (p.caption LIKE ? ESCAPE '\' OR p.hashtags LIKE ? ESCAPE '\' OR p.cta LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	qb.WriteString(` ORDER BY r.created_at DESC, p.run_id, p.platform_pos, p.platform, p.variation LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	var results []PostResult
	for rows.Next() {
		var (
			pr        PostResult
			createdAt string
			hashtags  sql.NullString
			cta       sql.NullString
		)
		if err := rows.Scan(
			&pr.RunID, &pr.Topic, &createdAt, &pr.Platform, &pr.Variation,
			&pr.Caption, &hashtags, &cta, &pr.Failed,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		pr.Hashtags = hashtags.String
		pr.CTA = cta.String
		pr.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		results = append(results, pr)
	}
	return results, rows.Err()
}

// ListRuns returns up to limit runs, newest first. limit <= 0 uses the
// store default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.created_at,
			COUNT(p.rowid), COALESCE(SUM(p.failed), 0)
		FROM runs r
		LEFT JOIN posts p ON p.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			rs        RunSummary
			createdAt string
		)
		if err := rows.Scan(&rs.ID, &rs.Topic, &createdAt, &rs.Posts, &rs.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}
