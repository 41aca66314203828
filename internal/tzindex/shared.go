package tzindex

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"tz-api/internal/logger"
)

// ErrNotLoaded 句柄尚未发布任何索引
var ErrNotLoaded = errors.New("tzindex: index not loaded")

// DefaultDataDir 表文件目录：TZ_DATA_DIR，缺省 data/tz
func DefaultDataDir() string {
	if d := os.Getenv("TZ_DATA_DIR"); d != "" {
		return d
	}
	return filepath.Join("data", "tz")
}

// 进程级共享索引：首次调用时构建且只构建一次，之后所有调用方共享同一只读结构
var shared = sync.OnceValues(func() (*Index, error) {
	dir := DefaultDataDir()
	logger.L().Info("index_shared_load", "dir", dir)
	return LoadDir(dir)
})

// Shared 返回进程级共享索引；构建失败时每次调用都返回同一错误
func Shared() (*Index, error) { return shared() }

// Lookup 使用共享索引查询；越界坐标以 ErrCoordOutOfRange 返回而不 panic
func Lookup(lat, lon float64) (string, bool, error) {
	if err := CheckCoord(lat, lon); err != nil {
		return "", false, err
	}
	ix, err := Shared()
	if err != nil {
		return "", false, err
	}
	zone, ok := ix.Lookup(lat, lon)
	return zone, ok, nil
}

// 文档注释：可热替换的索引句柄
// 背景：通过 atomic.Pointer 发布完整构建的索引，读路径无锁；运维触发整体重载时原子切换到新索引。
// 约束：只发布构建成功的索引；旧索引在无引用后由 GC 回收，读者不会看到半成品。
type Handle struct {
	p atomic.Pointer[Index]
}

// NewHandle 以已构建的索引初始化句柄，ix 可为 nil
func NewHandle(ix *Index) *Handle {
	h := &Handle{}
	if ix != nil {
		h.p.Store(ix)
	}
	return h
}

func (h *Handle) Load() *Index { return h.p.Load() }

// Store 发布新索引；nil 被忽略
func (h *Handle) Store(ix *Index) {
	if ix == nil {
		return
	}
	h.p.Store(ix)
}

// Reload 从目录重新构建并发布；失败时保留当前索引
func (h *Handle) Reload(dir string) (*Index, error) {
	ix, err := LoadDir(dir)
	if err != nil {
		logger.L().Error("index_reload_error", "dir", dir, "err", err)
		return nil, err
	}
	h.p.Store(ix)
	logger.L().Info("index_reloaded", "dir", dir, "leaves", ix.NumLeaves())
	return ix, nil
}

// Lookup 校验坐标后在当前索引上查询
func (h *Handle) Lookup(lat, lon float64) (string, bool, error) {
	if err := CheckCoord(lat, lon); err != nil {
		return "", false, err
	}
	ix := h.p.Load()
	if ix == nil {
		return "", false, ErrNotLoaded
	}
	zone, ok := ix.Lookup(lat, lon)
	return zone, ok, nil
}
