package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/gofrs/flock"
)

// FileStorage keeps tokens and notifications in two JSON files. The files are
// the source of truth: every operation re-reads them under an advisory lock,
// so the server and the CLI can share one data directory.
//
// Notifications are written by a debounced worker. Until a flush, local
// changes live in pending and are overlaid on what the file holds. A flush
// merges pending into the current file contents by id; notifications are
// never removed and read never goes back to false, so the merge loses nothing.
type FileStorage struct {
	mu                sync.Mutex
	pending           map[string]*internal.Notification // id -> unflushed change
	tokensFile        string
	notificationsFile string
	tokensLock        *flock.Flock
	notificationsLock *flock.Flock
	saveNotifChan     chan struct{}
	shutdownChan      chan struct{}
	closeOnce         sync.Once
	saveNotifDelay    time.Duration
	logger            internal.Logger
}

func NewFileStorage(tokensFile, notificationsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		pending:           make(map[string]*internal.Notification),
		tokensFile:        tokensFile,
		notificationsFile: notificationsFile,
		// The data files are replaced by rename, so the locks live beside them.
		tokensLock:        flock.New(tokensFile + ".lock"),
		notificationsLock: flock.New(notificationsFile + ".lock"),
		saveNotifChan:     make(chan struct{}, 1),
		shutdownChan:      make(chan struct{}),
		saveNotifDelay:    500 * time.Millisecond,
		logger:            logger,
	}

	for _, p := range []string{tokensFile, notificationsFile} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	// Fail fast on unreadable files.
	if _, err := s.readValues(); err != nil {
		logger.Errorf("storage: failed to load tokens: %v", err)
		return nil, err
	}
	if _, err := s.readNotifications(); err != nil {
		logger.Errorf("storage: failed to load notifications: %v", err)
		return nil, err
	}

	go s.saveNotificationsWorker()

	return s, nil
}

// readValues loads the tokens file. Missing or empty files read as no values.
func (s *FileStorage) readValues() (map[string]string, error) {
	values := map[string]string{}
	file, err := os.Open(s.tokensFile)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}

func (s *FileStorage) readNotifications() (map[string]*internal.Notification, error) {
	all := map[string]*internal.Notification{}
	file, err := os.Open(s.notificationsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return all, nil
		}
		return nil, err
	}
	defer file.Close()

	var list []*internal.Notification
	if err := json.NewDecoder(file).Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		return nil, err
	}
	for _, n := range list {
		all[n.ID] = n
	}
	return all, nil
}

func atomicWriteFileJSON(filePath string, data interface{}, perm os.FileMode) error {
	tempFile := filePath + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// mergeNotification folds n into dst. Known ids only ever gain read=true.
func mergeNotification(dst map[string]*internal.Notification, n *internal.Notification) {
	if cur, ok := dst[n.ID]; ok {
		if n.Read {
			cur.Read = true
		}
		return
	}
	cp := *n
	dst[n.ID] = &cp
}

// currentNotificationsLocked returns the file contents with pending changes
// applied. s.mu must be held.
func (s *FileStorage) currentNotificationsLocked() (map[string]*internal.Notification, error) {
	if err := s.notificationsLock.RLock(); err != nil {
		return nil, err
	}
	all, err := s.readNotifications()
	s.notificationsLock.Unlock()
	if err != nil {
		return nil, err
	}
	for _, n := range s.pending {
		mergeNotification(all, n)
	}
	return all, nil
}

func (s *FileStorage) flushNotifications() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}

	if err := s.notificationsLock.Lock(); err != nil {
		return err
	}
	defer s.notificationsLock.Unlock()

	all, err := s.readNotifications()
	if err != nil {
		return err
	}
	for _, n := range s.pending {
		mergeNotification(all, n)
	}
	list := make([]*internal.Notification, 0, len(all))
	for _, n := range all {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	if err := atomicWriteFileJSON(s.notificationsFile, list, 0o644); err != nil {
		return err
	}
	s.pending = make(map[string]*internal.Notification)
	return nil
}

func (s *FileStorage) saveNotificationsWorker() {
	timer := time.NewTimer(s.saveNotifDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveNotifChan:
			timer.Reset(s.saveNotifDelay)
		case <-timer.C:
			if err := s.flushNotifications(); err != nil {
				s.logger.Errorf("storage: error saving notifications: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) signalNotificationsSave() {
	select {
	case s.saveNotifChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		// Flush pending notifications synchronously on shutdown
		err = s.flushNotifications()
	})
	return err
}

// --- KeyValueStore ---
// Token writes are persisted synchronously so every mutation is durable on return.
func (s *FileStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokensLock.RLock(); err != nil {
		return "", false, err
	}
	defer s.tokensLock.Unlock()

	values, err := s.readValues()
	if err != nil {
		s.logger.Errorf("storage: failed to read key %s: %v", key, err)
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// updateValues applies fn to the tokens file contents under the exclusive
// lock. fn reports whether anything changed.
func (s *FileStorage) updateValues(fn func(values map[string]string) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokensLock.Lock(); err != nil {
		return err
	}
	defer s.tokensLock.Unlock()

	values, err := s.readValues()
	if err != nil {
		return err
	}
	if !fn(values) {
		return nil
	}
	return atomicWriteFileJSON(s.tokensFile, values, 0o600)
}

func (s *FileStorage) Set(ctx context.Context, key, value string) error {
	err := s.updateValues(func(values map[string]string) bool {
		values[key] = value
		return true
	})
	if err != nil {
		s.logger.Errorf("storage: failed to persist key %s: %v", key, err)
	}
	return err
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	err := s.updateValues(func(values map[string]string) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
	if err != nil {
		s.logger.Errorf("storage: failed to delete key %s: %v", key, err)
	}
	return err
}

// --- NotificationRepository ---
func (s *FileStorage) SaveNotification(ctx context.Context, n *internal.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mergeNotification(s.pending, n)
	s.signalNotificationsSave()
	return nil
}

func (s *FileStorage) ListNotifications(ctx context.Context, userID string) ([]internal.Notification, error) {
	s.mu.Lock()
	all, err := s.currentNotificationsLocked()
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("storage: failed to load notifications: %v", err)
		return nil, err
	}

	out := []internal.Notification{}
	for _, n := range all {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *FileStorage) MarkNotificationRead(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.currentNotificationsLocked()
	if err != nil {
		return err
	}
	n, ok := all[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	if !n.Read {
		read := *n
		read.Read = true
		mergeNotification(s.pending, &read)
		s.signalNotificationsSave()
	}
	return nil
}

func (s *FileStorage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.currentNotificationsLocked()
	if err != nil {
		return err
	}
	changed := false
	for _, n := range all {
		if n.UserID != userID || n.Read {
			continue
		}
		read := *n
		read.Read = true
		mergeNotification(s.pending, &read)
		changed = true
	}
	if changed {
		s.signalNotificationsSave()
	}
	return nil
}

// --- Compile-time assertions ---
var _ KeyValueStore = (*FileStorage)(nil)
var _ NotificationRepository = (*FileStorage)(nil)
