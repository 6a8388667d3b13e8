package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

// DBTX is the subset of pgxpool.Pool used by repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS analysis_snapshots (
		id               UUID PRIMARY KEY,
		channel_id       TEXT NOT NULL,
		channel_title    TEXT NOT NULL DEFAULT '',
		scope            TEXT NOT NULL,
		outcome          TEXT NOT NULL,
		total_videos     INTEGER NOT NULL DEFAULT 0,
		long_form_count  INTEGER NOT NULL DEFAULT 0,
		short_form_count INTEGER NOT NULL DEFAULT 0,
		report           JSONB NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_snapshots_channel_created
		ON analysis_snapshots (channel_id, created_at DESC);`

type SnapshotRepo struct {
	db DBTX
}

func NewSnapshotRepo(db DBTX) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// EnsureSchema creates the snapshots table if it does not exist.
func (r *SnapshotRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Save inserts a snapshot. The report is stored as JSONB.
func (r *SnapshotRepo) Save(ctx context.Context, s *model.Snapshot) error {
	report, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("encode snapshot report: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO analysis_snapshots
			(id, channel_id, channel_title, scope, outcome,
			 total_videos, long_form_count, short_form_count, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.ChannelID, s.ChannelTitle, s.Scope, string(s.Outcome),
		s.TotalVideos, s.LongFormCount, s.ShortFormCount, report, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListByChannel returns a channel's most recent snapshots, newest first.
func (r *SnapshotRepo) ListByChannel(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, channel_id, channel_title, scope, outcome,
		       total_videos, long_form_count, short_form_count, report, created_at
		FROM analysis_snapshots
		WHERE channel_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		var (
			s       model.Snapshot
			outcome string
			report  []byte
		)
		if err := rows.Scan(
			&s.ID, &s.ChannelID, &s.ChannelTitle, &s.Scope, &outcome,
			&s.TotalVideos, &s.LongFormCount, &s.ShortFormCount, &report, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Outcome = model.Outcome(outcome)
		if len(report) > 0 {
			s.Report = &model.PeriodicityReport{}
			if err := json.Unmarshal(report, s.Report); err != nil {
				return nil, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
			}
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// DeleteOlderThan removes snapshots created before cutoff and returns how
// many rows were deleted.
func (r *SnapshotRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM analysis_snapshots WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
