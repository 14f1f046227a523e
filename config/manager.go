/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/nijakow/raven-go/logger"
)

// Manager owns one viper instance bound to a config file, the current
// decoded World value, and an optional fsnotify watch that reloads and
// redistributes a fresh World to every registered listener on change.
type Manager struct {
	v   *viper.Viper
	log logger.Logger

	mu       sync.RWMutex
	current  World
	path     string
	watcher  *fsnotify.Watcher
	onReload []func(World)
}

// Load reads path (any format viper supports: yaml, toml, json, ...)
// over top of Defaults and returns a Manager holding the result. A
// missing file is not an error: Defaults alone are used.
func Load(path string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.New()
	}

	m := &Manager{
		v:   viper.New(),
		log: log,
	}

	d := Defaults()
	m.v.SetDefault("listen_network", d.ListenNetwork)
	m.v.SetDefault("listen_address", d.ListenAddress)
	m.v.SetDefault("gc_interval_passes", d.GCIntervalPass)
	m.v.SetDefault("slice_budget", d.SliceBudget)
	m.v.SetDefault("log_level", d.LogLevel)

	if path != "" {
		m.v.SetConfigFile(path)
		if err := m.v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, ErrorLoadFailed.Error(err)
			}
		}
		m.path = path
	}

	if err := m.reload(); err != nil {
		return nil, err
	}

	return m, nil
}

// Current returns the most recently (re)loaded configuration.
func (m *Manager) Current() World {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnReload registers fn to be called, with the new value, every time
// the configuration is reloaded (manually via Reload or automatically
// via Watch).
func (m *Manager) OnReload(fn func(World)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, fn)
}

// Reload re-reads the bound file (if any) and redecodes it, notifying
// every OnReload listener on success.
func (m *Manager) Reload() error {
	if m.path != "" {
		if err := m.v.ReadInConfig(); err != nil {
			return ErrorLoadFailed.Error(err)
		}
	}
	return m.reload()
}

func (m *Manager) reload() error {
	var w World
	if err := m.v.Unmarshal(&w); err != nil {
		return ErrorDecodeFailed.Error(err)
	}

	m.mu.Lock()
	m.current = w
	listeners := append([]func(World){}, m.onReload...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(w)
	}
	return nil
}

// Watch starts an fsnotify watch on the config file's directory and
// calls Reload whenever the bound file is written or recreated (the
// way editors and config-management tools replace files). It returns
// once the watcher goroutine is running; call Close to stop it.
func (m *Manager) Watch() error {
	if m.path == "" {
		return ErrorWatchFailed.Error(nil)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrorWatchFailed.Error(err)
	}

	dir := filepath.Dir(m.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return ErrorWatchFailed.Error(err)
	}

	m.mu.Lock()
	m.watcher = w
	m.mu.Unlock()

	go m.watchLoop(w)
	return nil
}

func (m *Manager) watchLoop(w *fsnotify.Watcher) {
	target := filepath.Clean(m.path)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := m.Reload(); err != nil {
				m.log.Warning("config reload failed", err, "path", m.path)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Warning("config watch error", err, "path", m.path)
		}
	}
}

// Close stops the fsnotify watch started by Watch, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}
