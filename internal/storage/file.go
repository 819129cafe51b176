package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"qotd/internal/question"
	logx "qotd/pkg/logx"
)

// fileStore keeps the collection as a JSON array of {id,text,answered}.
//
// Files:
//   - <path>       the state itself
//   - <path>.lock  advisory lock held while the store is open
//
// Saves go through a temp file in the same directory followed by a rename,
// so the state file is always either the old or the new content.
type fileStore struct {
	log  logx.Logger
	path string

	mu     sync.Mutex
	lock   *flock.Flock
	closed bool
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	lk := flock.New(path + ".lock")
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &fileStore{log: log, path: path, lock: lk}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.lock.Unlock()
}

func (s *fileStore) Load(ctx context.Context) (question.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return question.Collection{}, nil
	}
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return question.Collection{}, nil
	}

	var rs []record
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	c := fromRecords(rs)
	s.log.Debug("state loaded", logx.String("path", s.path), logx.Int("questions", len(c)))
	return c, nil
}

func (s *fileStore) Save(ctx context.Context, c question.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	b, err := json.MarshalIndent(toRecords(c), "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, append(b, '\n')); err != nil {
		return err
	}
	s.log.Debug("state saved", logx.String("path", s.path), logx.Int("questions", len(c)))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	cleanup := func() { _ = os.Remove(tmp) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		cleanup()
		return err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmp, 0o600); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
