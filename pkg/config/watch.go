package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch watches the config file for changes and calls onReload after each
// successful reload. It blocks until the watcher fails or stop is closed.
// The parent directory is watched rather than the file itself so that
// rename-based atomic writes (editors, configmap mounts) are picked up.
func Watch(stop <-chan struct{}, onReload func(*MizuConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	configFile := Get().ConfigFilePath()
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != configFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := Reload(); err != nil {
				// Keep the previous config on a bad reload
				continue
			}
			if onReload != nil {
				onReload(Get())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-stop:
			return nil
		}
	}
}
