// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the config file whenever it changes and delivers the result
// to onChange. Unparseable edits are logged and skipped; the previous config
// stays in effect. The returned stop function releases the watcher.
func Watch(path string, logger *zap.Logger, onChange func(*Config)) (stop func(), err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace config files by
	// rename, which drops a direct file watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadFrom(path)
				if err != nil {
					logger.Warn("config reload skipped", zap.Error(err))
					continue
				}
				logger.Info("config reloaded", zap.String("path", path))
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
