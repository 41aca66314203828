package api

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// LoadLocation 每次都会读取时区数据，按区名缓存结果（含失败）
var locations sync.Map

type locEntry struct {
	loc *time.Location
	err error
}

func loadLocation(zone string) (*time.Location, error) {
	if v, ok := locations.Load(zone); ok {
		e := v.(locEntry)
		return e.loc, e.err
	}
	loc, err := time.LoadLocation(zone)
	locations.Store(zone, locEntry{loc: loc, err: err})
	return loc, err
}

// zoneOffset 返回 zone 在 now 时刻的 UTC 偏移（±hh:mm）与缩写
func zoneOffset(zone string, now time.Time) (string, string, bool) {
	if zone == "" {
		return "", "", false
	}
	loc, err := loadLocation(zone)
	if err != nil {
		return "", "", false
	}
	abbr, off := now.In(loc).Zone()
	return formatOffset(off), abbr, true
}

func formatOffset(sec int) string {
	sign := '+'
	if sec < 0 {
		sign = '-'
		sec = -sec
	}
	return fmt.Sprintf("%c%02d:%02d", sign, sec/3600, sec%3600/60)
}
