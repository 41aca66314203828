// 包 logger：统一初始化与获取日志器，避免各模块重复配置；通过环境变量控制日志级别、输出格式与可选的滚动文件
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 默认日志器：在进程级复用，避免多处初始化导致输出不一致
var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	fileOut       *lumberjack.Logger
)

// Setup：初始化默认日志器
// 背景：集中化日志配置，便于按环境统一调整级别与格式
// 约束：始终输出到标准错误；设置 LOG_FILE 时同时写入按大小滚动的日志文件
func Setup() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return setupLocked()
}

func setupLocked() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if fileOut != nil {
		_ = fileOut.Close()
		fileOut = nil
	}
	var out io.Writer = os.Stderr
	if path := os.Getenv("LOG_FILE"); path != "" {
		fileOut = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    envInt("LOG_FILE_MAX_MB", 100),
			MaxBackups: envInt("LOG_FILE_MAX_BACKUPS", 5),
			MaxAge:     envInt("LOG_FILE_MAX_AGE_DAYS", 30),
			Compress:   os.Getenv("LOG_FILE_COMPRESS") == "true",
		}
		out = io.MultiWriter(os.Stderr, fileOut)
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L：获取默认日志器
// 背景：为业务代码提供快捷访问；若未初始化则回退到 Setup
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		return setupLocked()
	}
	return defaultLogger
}

// Rotate：手动滚动日志文件；未启用文件输出时为空操作
func Rotate() error {
	mu.Lock()
	defer mu.Unlock()
	if fileOut == nil {
		return nil
	}
	return fileOut.Rotate()
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
