// 包 logger：统一初始化与获取日志器；客户端与服务端共用同一套环境变量控制级别、格式与输出目标
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	logFile       *os.File
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup：按环境变量初始化默认日志器
// 约束：LOG_FILE 非空时追加写入该文件（终端界面独占标准输出/错误时使用）；打开失败回退到标准错误
func Setup() *slog.Logger {
	var w io.Writer = os.Stderr
	if p := os.Getenv("LOG_FILE"); p != "" {
		if f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			mu.Lock()
			if logFile != nil {
				_ = logFile.Close()
			}
			logFile = f
			mu.Unlock()
			w = f
		}
	}
	return SetupWriter(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// SetupWriter：以指定输出目标、级别与格式初始化默认日志器
// 背景：测试与终端界面需要把日志导向缓冲区或丢弃
func SetupWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		return Setup()
	}
	return l
}

// Close：关闭 LOG_FILE 打开的文件句柄
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
