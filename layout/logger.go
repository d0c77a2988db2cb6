package layout

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃全部日志；Enabled 返回 false，调用方会直接跳过格式化。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置排版引擎及其调用方共用的日志器，默认不输出任何内容。
// 传入 nil 恢复静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 度量失败后的估算兜底、分页
//   - [slog.LevelInfo]: 文件生成等生命周期事件
//   - [slog.LevelWarn]: 可恢复的问题（例如字体文件无法解析）
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
