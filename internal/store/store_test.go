package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/report"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "postgres")), mock
}

func sampleDoc() *report.Document {
	return &report.Document{
		ScanID:         "scan-1",
		ScanDate:       time.Date(2024, 12, 8, 20, 0, 0, 0, time.UTC),
		MemesProcessed: 3,
		TotalRanked:    2,
		TopMatches: []report.Entry{
			{Rank: 1, Name: "Grumpy Cat Coin", MemeName: "Grumpy Cat", TotalScore: 59.62},
			{Rank: 2, Name: "Doge Classic", MemeName: "Doge Classic", TotalScore: 21},
		},
	}
}

func TestSaveScan(t *testing.T) {
	s, mock := mockStore(t)
	doc := sampleDoc()
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO meme_scans`).
		WithArgs(doc.ScanID, doc.ScanDate, doc.TotalRanked, payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveScan(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestScan(t *testing.T) {
	s, mock := mockStore(t)
	doc := sampleDoc()
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM meme_scans ORDER BY scan_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.LatestScan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.ScanID, got.ScanID)
	assert.Len(t, got.TopMatches, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestScanEmptyArchive(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery(`SELECT payload FROM meme_scans`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	got, err := s.LatestScan(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
