package main

import (
	"fmt"
	"os"

	"tz-api/internal/logger"
	"tz-api/internal/tables"
	"tz-api/internal/tzcases"
	"tz-api/internal/tzindex"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
)

// 文档注释：检查一组表文件
// 用法：tz-inspect [dir]；dir 缺省取 TZ_DATA_DIR。
// 背景：加载并校验表，输出清单与索引概况（JSON）；TZ_INSPECT_CHECK=true 时再逐个核对已知样例点。
// 约束：加载失败或样例不符时以非零状态退出。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	dir := tzindex.DefaultDataDir()
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	raw, err := tables.LoadDir(dir)
	if err != nil {
		l.Error("tables_load_error", "dir", dir, "err", err)
		os.Exit(1)
	}
	ix, err := tzindex.New(raw)
	if err != nil {
		l.Error("index_build_error", "dir", dir, "err", err)
		os.Exit(1)
	}
	type levelInfo struct {
		Level     int     `json:"level"`
		Tiles     int     `json:"tiles"`
		SpanPx    int     `json:"span_px"`
		SpanDeg   float64 `json:"span_deg"`
		FirstTile string  `json:"first_tile,omitempty"`
	}
	levels := make([]levelInfo, 0, tzindex.NumLevels)
	for i := 0; i < tzindex.NumLevels; i++ {
		zl := ix.Level(i)
		li := levelInfo{
			Level:   i,
			Tiles:   zl.Len(),
			SpanPx:  tzindex.TileSpan(i),
			SpanDeg: float64(tzindex.TileSpan(i)) / tzindex.DegPixels,
		}
		if zl.Len() > 0 {
			b := tzindex.TileBound(i, zl.Entry(0).Key)
			li.FirstTile = fmt.Sprintf("lon [%g, %g] lat [%g, %g]", b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y())
		}
		levels = append(levels, li)
	}
	out := map[string]any{
		"dir":      dir,
		"manifest": raw.Manifest,
		"stats":    ix.Stats(),
		"levels":   levels,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		l.Error("output_error", "err", err)
		os.Exit(1)
	}

	if os.Getenv("TZ_INSPECT_CHECK") != "true" {
		return
	}
	bad := 0
	for _, c := range tzcases.Pixels {
		zone, _ := ix.LookupPixel(c.X, c.Y)
		if zone != c.Zone {
			bad++
			l.Error("check_pixel_mismatch", "x", c.X, "y", c.Y, "want", c.Zone, "got", zone)
		}
	}
	for _, c := range tzcases.Geo {
		zone, _ := ix.Lookup(c.Lat, c.Lon)
		if zone != c.Zone {
			bad++
			l.Error("check_geo_mismatch", "lat", c.Lat, "lon", c.Lon, "want", c.Zone, "got", zone)
		}
	}
	total := len(tzcases.Pixels) + len(tzcases.Geo)
	l.Info("check_done", "cases", total, "mismatches", bad)
	if bad > 0 {
		os.Exit(1)
	}
}
