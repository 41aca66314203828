package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tz-api/internal/logger"
	"tz-api/internal/tzindex"

	"github.com/joho/godotenv"
)

// 文档注释：命令行时区查询
// 用法：tz-lookup <lat> <lon> | tz-lookup pixel <x> <y> | tz-lookup（从标准输入逐行读取 "lat lon"）
// 背景：表目录取 TZ_DATA_DIR（缺省 data/tz），使用进程级共享索引；无时区时输出 "-"。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	args := os.Args[1:]
	switch {
	case len(args) == 3 && args[0] == "pixel":
		x, err1 := strconv.Atoi(args[1])
		y, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			l.Error("pixel_parse_error", "x", args[1], "y", args[2])
			os.Exit(2)
		}
		ix, err := tzindex.Shared()
		if err != nil {
			l.Error("index_load_error", "err", err)
			os.Exit(1)
		}
		zone, _ := ix.LookupPixel(x, y)
		fmt.Println(orDash(zone))
	case len(args) == 2:
		zone, err := lookup(args[0], args[1])
		if err != nil {
			l.Error("lookup_error", "err", err)
			os.Exit(1)
		}
		fmt.Println(orDash(zone))
	case len(args) == 0:
		sc := bufio.NewScanner(os.Stdin)
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		for sc.Scan() {
			f := strings.Fields(strings.ReplaceAll(sc.Text(), ",", " "))
			if len(f) == 0 {
				continue
			}
			if len(f) != 2 {
				l.Warn("line_skipped", "line", sc.Text())
				continue
			}
			zone, err := lookup(f[0], f[1])
			if err != nil {
				l.Warn("lookup_error", "line", sc.Text(), "err", err)
				fmt.Fprintf(w, "%s %s !\n", f[0], f[1])
				continue
			}
			fmt.Fprintf(w, "%s %s %s\n", f[0], f[1], orDash(zone))
		}
		if err := sc.Err(); err != nil {
			l.Error("stdin_error", "err", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: tz-lookup <lat> <lon> | tz-lookup pixel <x> <y> | tz-lookup < points.txt")
		os.Exit(2)
	}
}

func lookup(latS, lonS string) (string, error) {
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return "", fmt.Errorf("lat %q: %w", latS, err)
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return "", fmt.Errorf("lon %q: %w", lonS, err)
	}
	zone, _, err := tzindex.Lookup(lat, lon)
	return zone, err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
