package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tz-api/internal/logger"
	"tz-api/internal/tables"
	"tz-api/internal/tzindex"

	"github.com/joho/godotenv"
)

// 文档注释：表打包工具
// 用法：tz-pack <src> <dst>        将 src 下未压缩的 table0.bin..table5.bin、leaves.bin 打包为容器格式
//
//	tz-pack unpack <src> <dst> 将容器格式还原为未压缩文件
//
// 背景：打包前先完整构建一次索引，任何损坏（排序、索引越界、环）都拒绝输出；清单的 build 取 TZ_BUILD，缺省为当前 UTC 时间。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	args := os.Args[1:]
	var err error
	switch {
	case len(args) == 3 && args[0] == "unpack":
		err = unpack(args[1], args[2])
	case len(args) == 2:
		err = pack(args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "usage: tz-pack <src> <dst> | tz-pack unpack <src> <dst>")
		os.Exit(2)
	}
	if err != nil {
		l.Error("tz_pack_error", "err", err)
		os.Exit(1)
	}
}

func pack(src, dst string) error {
	raw := &tables.Raw{Levels: make([][]byte, tables.NumLevels)}
	for i := range raw.Levels {
		b, err := os.ReadFile(filepath.Join(src, tables.LevelFile(i)))
		if err != nil {
			return err
		}
		raw.Levels[i] = b
	}
	leaves, err := os.ReadFile(filepath.Join(src, tables.LeavesFile))
	if err != nil {
		return err
	}
	n, err := tzindex.CountLeaves(leaves)
	if err != nil {
		return fmt.Errorf("leaves: %w", err)
	}
	raw.Leaves = leaves
	ix, err := tzindex.New(&tables.Raw{Levels: raw.Levels, Leaves: leaves, Manifest: tables.Manifest{NumLeaves: n}})
	if err != nil {
		return err
	}
	build := os.Getenv("TZ_BUILD")
	if build == "" {
		build = time.Now().UTC().Format(time.RFC3339)
	}
	raw.Manifest = tables.Manifest{
		NumLeaves: n,
		DegPixels: tables.DegPixels,
		Levels:    tables.NumLevels,
		Build:     build,
	}
	if err := tables.WriteDir(dst, raw); err != nil {
		return err
	}
	logger.L().Info("tz_pack_done", "dst", dst, "leaves", n, "zones", len(ix.Zones()), "build", build)
	return nil
}

func unpack(src, dst string) error {
	raw, err := tables.LoadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for i, b := range raw.Levels {
		if err := os.WriteFile(filepath.Join(dst, tables.LevelFile(i)), b, 0o644); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(dst, tables.LeavesFile), raw.Leaves, 0o644); err != nil {
		return err
	}
	logger.L().Info("tz_unpack_done", "dst", dst, "leaves", raw.Manifest.NumLeaves, "build", raw.Manifest.Build)
	return nil
}
