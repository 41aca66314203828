// 包 store: 提供与 PostgreSQL 的数据访问层，负责查询统计的读写
package store

import (
	"context"
	"database/sql"

	"tz-api/internal/logger"
)

// Store: 数据库访问入口，持有连接池并提供统计接口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// 文档注释：成功查询后递增统计
// 背景：总计与当日计数始终递增；visitor 非空表示首次出现的访客；zone 非空时累加该时区命中次数。
// 约束：单条语句失败记录日志后继续执行其余语句，返回第一个错误；调用方记录日志，不影响主查询。
func (s *Store) IncrStats(ctx context.Context, zone string, visitor string) error {
	var first error
	exec := func(q string, args ...any) {
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			logger.L().Warn("stats_exec_error", "err", err)
			if first == nil {
				first = err
			}
		}
	}
	exec("UPDATE _tz_stats_total SET total_queries=total_queries+1 WHERE id=1")
	exec("INSERT INTO _tz_stats_daily(day, queries) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET queries=_tz_stats_daily.queries+1")
	if visitor != "" {
		exec("UPDATE _tz_stats_total SET total_visitors=total_visitors+1 WHERE id=1")
		exec("INSERT INTO _tz_stats_daily(day, visitors) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET visitors=_tz_stats_daily.visitors+1")
	}
	if zone != "" {
		exec(`INSERT INTO _tz_zone_hits(zone, hits, last_hit) VALUES($1, 1, now())
            ON CONFLICT (zone) DO UPDATE SET hits=_tz_zone_hits.hits+1, last_hit=now()`, zone)
	}
	logger.L().Debug("stats_incr", "zone", zone, "visitor", visitor != "")
	return first
}

// Totals: 统计返回结构，包含累计与当日查询次数及访客数
type Totals struct {
	Total         int64 `json:"total"`
	Today         int64 `json:"today"`
	TotalVisitors int64 `json:"total_visitors"`
	TodayVisitors int64 `json:"today_visitors"`
}

// GetTotals: 读取累计与当日计数；当日尚无记录时为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_queries, total_visitors FROM _tz_stats_total WHERE id=1")
	if err := row.Scan(&t.Total, &t.TotalVisitors); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT queries, visitors FROM _tz_stats_daily WHERE day=current_date")
	if err := row2.Scan(&t.Today, &t.TodayVisitors); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}

type ZoneHits struct {
	Zone string `json:"zone"`
	Hits int64  `json:"hits"`
}

// TopZones: 按命中次数倒序返回最多 limit 个时区
func (s *Store) TopZones(ctx context.Context, limit int) ([]ZoneHits, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, "SELECT zone, hits FROM _tz_zone_hits ORDER BY hits DESC, zone ASC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ZoneHits
	for rows.Next() {
		var z ZoneHits
		if err := rows.Scan(&z.Zone, &z.Hits); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
