package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

var snapshotColumns = []string{
	"id", "channel_id", "channel_title", "scope", "outcome",
	"total_videos", "long_form_count", "short_form_count", "report", "created_at",
}

func newMockRepo(t *testing.T) (*SnapshotRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewSnapshotRepo(mock), mock
}

func TestSnapshotRepo_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := &model.Snapshot{
		ID:             "6f1c2f9e-7c0b-4a52-9c2a-3c1f0c6d1a11",
		ChannelID:      "UC_a",
		ChannelTitle:   "Alpha",
		Scope:          "90d",
		Outcome:        model.OutcomeOK,
		TotalVideos:    10,
		LongFormCount:  6,
		ShortFormCount: 4,
		Report:         &model.PeriodicityReport{Outcome: model.OutcomeOK, Scope: "90d", RequestedScope: "90d"},
		CreatedAt:      created,
	}
	report, err := json.Marshal(snap.Report)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analysis_snapshots")).
		WithArgs(snap.ID, "UC_a", "Alpha", "90d", "ok", 10, 6, 4, report, created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Save(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_SaveError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO analysis_snapshots").
		WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), &model.Snapshot{ID: "x", Report: &model.PeriodicityReport{}})
	assert.ErrorContains(t, err, "insert snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_ListByChannel(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(snapshotColumns).
		AddRow("id-2", "UC_a", "Alpha", "lifetime", "ok", 12, 8, 4,
			[]byte(`{"outcome":"ok","scope":"lifetime","requestedScope":"all"}`), newer).
		AddRow("id-1", "UC_a", "Alpha", "90d", "insufficient_scoped_data", 0, 0, 0,
			[]byte(`{"outcome":"insufficient_scoped_data","scope":"90d","requestedScope":"90d"}`), older)

	mock.ExpectQuery("FROM analysis_snapshots").
		WithArgs("UC_a", 5).
		WillReturnRows(rows)

	got, err := repo.ListByChannel(context.Background(), "UC_a", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "id-2", got[0].ID)
	assert.Equal(t, model.OutcomeOK, got[0].Outcome)
	require.NotNil(t, got[0].Report)
	assert.Equal(t, "all", got[0].Report.RequestedScope)
	assert.Equal(t, model.OutcomeInsufficientScopedData, got[1].Outcome)
	assert.True(t, got[1].CreatedAt.Equal(older))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepo_ListByChannelEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM analysis_snapshots").
		WithArgs("UC_none", 20).
		WillReturnRows(pgxmock.NewRows(snapshotColumns))

	got, err := repo.ListByChannel(context.Background(), "UC_none", 20)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshotRepo_DeleteOlderThan(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM analysis_snapshots").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
