package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "qotd/pkg/logx"
)

type ConfigManager struct {
	path string
	env  LookupFunc

	// AllowMissing accepts a missing config file (env-only setups).
	AllowMissing bool

	mu       sync.RWMutex
	cfg      *Config
	lastHash uint64

	// subsMu guards subscriber list and ensures we never send on a channel
	// that is concurrently being closed in Unsubscribe().
	subsMu sync.Mutex
	subs   []chan *Config

	log logx.Logger
}

// NewConfigManager reads path and overlays env (usually os.LookupEnv).
func NewConfigManager(path string, env LookupFunc) *ConfigManager {
	return &ConfigManager{path: path, env: env}
}

func (m *ConfigManager) SetLogger(log logx.Logger) { m.log = log }

func (m *ConfigManager) Path() string { return m.path }

// Parse reads the file, overlays the environment, applies defaults and
// validates. It does not commit the result.
func (m *ConfigManager) Parse() (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(m.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && m.AllowMissing:
	case err != nil:
		return nil, err
	default:
		if err := decodeStrict(m.path, b, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", m.path, err)
		}
	}

	if err := cfg.ApplyEnv(m.env); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeStrict(path string, data []byte, out *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	jb, _, err := coerceToJSONBytes(path, data)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("invalid config: trailing data")
		}
		return err
	}
	return nil
}

func (m *ConfigManager) Commit(cfg *Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.lastHash = hashConfig(cfg)
	m.mu.Unlock()
}

func hashConfig(cfg *Config) uint64 {
	if cfg == nil {
		return 0
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

func (m *ConfigManager) Load() (*Config, error) {
	cfg, err := m.Parse()
	if err != nil {
		return nil, err
	}
	m.Commit(cfg)
	return cfg, nil
}

func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *ConfigManager) Subscribe(buffer int) chan *Config {
	ch := make(chan *Config, buffer)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *ConfigManager) Unsubscribe(ch chan *Config) {
	if ch == nil {
		return
	}
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for i, s := range m.subs {
		if s == ch {
			last := len(m.subs) - 1
			m.subs[i] = m.subs[last]
			m.subs[last] = nil
			m.subs = m.subs[:last]
			close(ch)
			return
		}
	}
}

func (m *ConfigManager) publish(cfg *Config) {
	// Hold subsMu while sending to avoid send-on-closed panics.
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		// Slow subscriber: drop the oldest pending config, keep the newest.
		select {
		case ch <- cfg:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cfg:
			default:
				m.log.Debug("config update dropped (subscriber slow)", logx.Int("queue_cap", cap(ch)))
			}
		}
	}
}

// reload parses, commits and publishes when the content changed.
func (m *ConfigManager) reload() {
	cfg, err := m.Parse()
	if err != nil {
		m.log.Warn("config rejected", logx.String("path", m.path), logx.Err(err))
		return
	}
	h := hashConfig(cfg)
	m.mu.RLock()
	unchanged := h != 0 && h == m.lastHash
	m.mu.RUnlock()
	if unchanged {
		m.log.Debug("config unchanged; skipping publish", logx.String("path", m.path))
		return
	}
	m.Commit(cfg)
	m.publish(cfg)
	m.log.Debug("config published", logx.String("path", m.path), logx.String("hash", fmt.Sprintf("%x", h)))
}

// Watch reloads the file on change until ctx is done. Editors often write in
// bursts, so reloads are debounced. A broken watcher is recreated with a
// jittered backoff.
func (m *ConfigManager) Watch(ctx context.Context) error {
	dir := filepath.Dir(m.path)
	file := filepath.Base(m.path)

	const (
		restartBackoffBase = 250 * time.Millisecond
		restartBackoffMax  = 5 * time.Second
		debounceDelay      = 250 * time.Millisecond
	)
	backoff := restartBackoffBase
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	nextWait := func() time.Duration {
		wait := backoff + time.Duration(rng.Int63n(int64(backoff/2)+1))
		backoff = min(backoff*2, restartBackoffMax)
		return wait
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, m.reload)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		w, err := fsnotify.NewWatcher()
		if err == nil {
			if err = w.Add(dir); err != nil {
				_ = w.Close()
			}
		}
		if err != nil {
			m.log.Warn("config watch init failed", logx.Err(err), logx.String("dir", dir))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(nextWait()):
				continue
			}
		}

		backoff = restartBackoffBase
		m.log.Debug("config watcher started", logx.String("dir", dir), logx.String("file", file))

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = w.Close()
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					broken = true
					break
				}
				if strings.EqualFold(filepath.Base(ev.Name), file) &&
					ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					debounce()
				}
			case err, ok := <-w.Errors:
				if !ok {
					broken = true
					break
				}
				if err != nil {
					m.log.Warn("config watch error", logx.Err(err), logx.String("dir", dir))
				}
			}
		}

		_ = w.Close()
		wait := nextWait()
		m.log.Warn("config watcher stopped; restarting", logx.String("dir", dir), logx.Duration("backoff", wait))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}
