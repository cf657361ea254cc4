package configwatcher

import (
	"codementor_backend/internal/config"
	"codementor_backend/pkg/logger"
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

const defaultDebounce = time.Second

type watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// newWatcher 监听配置文件所在目录，编辑器原子替换文件时也能收到事件
func newWatcher(configFile string, debounce time.Duration) (*watcher, error) {
	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(absPath)); err != nil {
		fs.Close()
		return nil, err
	}
	return &watcher{fs: fs, path: absPath, debounce: debounce}, nil
}

// WatchConfig 配置文件写入后防抖 1 秒重新加载并回调，加载失败时保留旧配置；ctx 取消时返回
func WatchConfig(ctx context.Context, configFile string, reloader ConfigReloader) error {
	w, err := newWatcher(configFile, defaultDebounce)
	if err != nil {
		return err
	}
	return w.run(ctx, reloader)
}

func (w *watcher) run(ctx context.Context, reloader ConfigReloader) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(w.path))
			if err != nil {
				logger.Log.Error("Failed to reload config, keeping previous values", zap.Error(err))
				continue
			}
			logger.Log.Info("Config file changed, applying", zap.String("file", w.path))
			reloader(newCfg)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
