// Package watch 在数据文件或主题文件变化后重新渲染。
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/vitae/layout"
)

// DefaultDebounce 是合并连续文件事件的等待时间。编辑器保存文件时通常会连续产生多个事件。
const DefaultDebounce = 200 * time.Millisecond

// Watcher 监听一组文件，事件经过去抖后触发回调。
// 监听的是文件所在目录，这样以"写临时文件再改名"方式保存的编辑器也能被捕获。
type Watcher struct {
	w        *fsnotify.Watcher
	targets  map[string]bool
	debounce time.Duration
}

// New 为 paths 创建监听器。debounce<=0 时使用 DefaultDebounce。
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: 没有需要监听的文件")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{w: fw, targets: map[string]bool{}, debounce: debounce}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: 监听 %s 失败: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Close 停止监听。
func (w *Watcher) Close() error {
	return w.w.Close()
}

// relevant 判断事件是否指向被监听的文件，且是会改变文件内容的操作。
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.targets[abs]
}

// Run 阻塞直到 ctx 结束或监听器关闭。每批相关事件在静默 debounce 之后调用一次 fn；
// fn 返回的错误只记录日志，不会停止监听。
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	// Go 1.23 起 Stop/Reset 之后不会再收到过期的触发值
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			layout.Logger().Warn("watch error", "err", err)

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			layout.Logger().Debug("file changed", "name", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := fn(); err != nil {
				layout.Logger().Error("re-render failed", "err", err)
			}
		}
	}
}
