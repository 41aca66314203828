package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"tz-api/internal/migrate"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// 需要可写的 PostgreSQL；未设置 TZ_TEST_PG_DSN 时跳过
func openTestDB(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TZ_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TZ_TEST_PG_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, migrate.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })
	return AttachDB(db)
}

func TestStatsRoundTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	before, err := s.GetTotals(ctx)
	require.NoError(t, err)

	require.NoError(t, s.IncrStats(ctx, "Asia/Phnom_Penh", "v1"))
	require.NoError(t, s.IncrStats(ctx, "Asia/Phnom_Penh", ""))
	require.NoError(t, s.IncrStats(ctx, "", ""))

	after, err := s.GetTotals(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Total+3, after.Total)
	require.Equal(t, before.TotalVisitors+1, after.TotalVisitors)
	require.GreaterOrEqual(t, after.Today, int64(3))

	top, err := s.TopZones(ctx, 100)
	require.NoError(t, err)
	var found bool
	for _, z := range top {
		if z.Zone == "Asia/Phnom_Penh" {
			found = true
			require.GreaterOrEqual(t, z.Hits, int64(2))
		}
	}
	require.True(t, found)
}

// 数据库不可用时写入与读取都应返回错误，而不是静默成功
func TestStatsReportDBErrors(t *testing.T) {
	db, err := sql.Open("postgres", "postgres://tz@127.0.0.1:1/tz?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	s := AttachDB(db)
	ctx := context.Background()

	require.Error(t, s.IncrStats(ctx, "Asia/Phnom_Penh", "v1"))
	require.Error(t, s.IncrStats(ctx, "", ""))
	_, err = s.GetTotals(ctx)
	require.Error(t, err)
}
