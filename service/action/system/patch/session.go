package patch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/fuzzypatch/internal/clock"
	"github.com/viant/fuzzypatch/internal/idgen"
)

// DefaultBackupURL is the location of session backups.
const DefaultBackupURL = "mem://localhost/fuzzypatch/backup"

// Action is a mutating session operation.
type Action string

const (
	Delete Action = "delete"
	Move   Action = "move"
	Update Action = "update"
	Add    Action = "add"
)

type rollbackEntry struct {
	action Action
	url    string
	auxURL string // move destination
	backup string
}

// Session applies file mutations through afs and remembers how to undo them.
// Every mutation stores its own backup so the same file can be patched many
// times within one session and still be restored to its original content.
type Session struct {
	ID        string
	fs        afs.Service
	backupURL string
	baseURL   string
	rollbacks []rollbackEntry
	sequence  int
	committed bool
	mu        sync.Mutex

	changes   []*changeEntry
	byCurrent map[string]*changeEntry
	byOrigin  map[string]*changeEntry
}

// SessionOption customises a session.
type SessionOption func(s *Session)

// WithBackupURL sets the backup root; backups go to
// <backupURL>/<sessionID>/<path>.<nanos>.<sequence>.bak.
func WithBackupURL(backupURL string) SessionOption {
	return func(s *Session) {
		if backupURL != "" {
			s.backupURL = backupURL
		}
	}
}

// WithBaseURL resolves relative patch paths against baseURL.
func WithBaseURL(baseURL string) SessionOption {
	return func(s *Session) {
		s.baseURL = baseURL
	}
}

// NewSession creates a session backed by fs.
func NewSession(fs afs.Service, options ...SessionOption) *Session {
	if fs == nil {
		fs = afs.New()
	}
	ret := &Session{
		ID:        idgen.New(),
		fs:        fs,
		backupURL: DefaultBackupURL,
		byCurrent: map[string]*changeEntry{},
		byOrigin:  map[string]*changeEntry{},
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// URL resolves a patch path to a storage URL.
func (s *Session) URL(path string) string {
	if s.baseURL == "" || !url.IsRelative(path) {
		return path
	}
	return url.Join(s.baseURL, path)
}

func (s *Session) sessionBackupURL() string {
	return url.Join(s.backupURL, s.ID)
}

func (s *Session) backup(ctx context.Context, URL string) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("backup %v: %w", URL, err)
	}
	rel := strings.TrimLeft(url.Path(URL), "/")
	s.sequence++
	dst := url.Join(s.sessionBackupURL(), fmt.Sprintf("%s.%d.%d.bak", rel, clock.Now().UnixNano(), s.sequence))
	if err = s.fs.Upload(ctx, dst, 0o644, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("backup %v: %w", URL, err)
	}
	return dst, nil
}

func (s *Session) assertActive() error {
	if s.committed {
		return errors.New("session already committed")
	}
	return nil
}

func (s *Session) exists(ctx context.Context, URL string) (bool, error) {
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return false, fmt.Errorf("check %v: %w", URL, err)
	}
	return ok, nil
}

// Delete removes URL.
func (s *Session) Delete(ctx context.Context, URL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assertActive(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, URL)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete: %v does not exist", URL)
	}
	backup, err := s.backup(ctx, URL)
	if err != nil {
		return err
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("delete %v: %w", URL, err)
	}
	s.rollbacks = append(s.rollbacks, rollbackEntry{action: Delete, url: URL, backup: backup})
	s.trackDelete(ctx, URL, backup)
	return nil
}

// Move renames src to dst.
func (s *Session) Move(ctx context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assertActive(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("move: %v does not exist", src)
	}
	if err = s.fs.Move(ctx, src, dst); err != nil {
		return fmt.Errorf("move %v to %v: %w", src, dst, err)
	}
	s.rollbacks = append(s.rollbacks, rollbackEntry{action: Move, url: src, auxURL: dst})
	s.trackMove(src, dst)
	return nil
}

// Update replaces the content of an existing URL.
func (s *Session) Update(ctx context.Context, URL string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assertActive(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, URL)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("update: %v does not exist", URL)
	}
	backup, err := s.backup(ctx, URL)
	if err != nil {
		return err
	}
	if err = s.fs.Upload(ctx, URL, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("update %v: %w", URL, err)
	}
	s.rollbacks = append(s.rollbacks, rollbackEntry{action: Update, url: URL, backup: backup})
	s.trackUpdate(ctx, URL, backup)
	return nil
}

// Add creates URL; it fails when URL already exists.
func (s *Session) Add(ctx context.Context, URL string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assertActive(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, URL)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("add: file %v already exists", URL)
	}
	if err = s.fs.Upload(ctx, URL, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("add %v: %w", URL, err)
	}
	s.rollbacks = append(s.rollbacks, rollbackEntry{action: Add, url: URL})
	s.trackAdd(ctx, URL)
	return nil
}

// Rollback undoes every mutation in reverse order and removes the backups.
func (s *Session) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.rollbacks) - 1; i >= 0; i-- {
		r := s.rollbacks[i]
		switch r.action {
		case Delete, Update:
			data, err := s.fs.DownloadWithURL(ctx, r.backup)
			if err != nil {
				return fmt.Errorf("rollback %v: %w", r.url, err)
			}
			if err = s.fs.Upload(ctx, r.url, 0o644, bytes.NewReader(data)); err != nil {
				return fmt.Errorf("rollback %v: %w", r.url, err)
			}
		case Move:
			if err := s.fs.Move(ctx, r.auxURL, r.url); err != nil {
				return fmt.Errorf("rollback move %v: %w", r.auxURL, err)
			}
		case Add:
			if ok, _ := s.fs.Exists(ctx, r.url); ok {
				if err := s.fs.Delete(ctx, r.url); err != nil {
					return fmt.Errorf("rollback add %v: %w", r.url, err)
				}
			}
		}
	}
	s.rollbacks = nil
	s.resetChanges()
	return s.cleanup(ctx)
}

// Commit discards the rollback information and the backups.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committed {
		return nil
	}
	s.committed = true
	s.rollbacks = nil
	s.resetChanges()
	return s.cleanup(ctx)
}

func (s *Session) cleanup(ctx context.Context) error {
	backupURL := s.sessionBackupURL()
	if ok, _ := s.fs.Exists(ctx, backupURL); !ok {
		return nil
	}
	if err := s.fs.Delete(ctx, backupURL); err != nil {
		return fmt.Errorf("cleanup %v: %w", backupURL, err)
	}
	return nil
}
