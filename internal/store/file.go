package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/iksnae/emotion-session/internal"
	"gopkg.in/yaml.v3"
)

const fileStoreVersion = "1.0"

var safeSessionName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON file per session plus a YAML index
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// SessionIndex is the YAML index of all sessions
type SessionIndex struct {
	Version   string                    `yaml:"version"`
	UpdatedAt time.Time                 `yaml:"updated_at"`
	Sessions  []internal.SessionSummary `yaml:"sessions"`
}

// NewFileStore creates a FileStore rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &internal.StorageError{Backend: internal.BackendFile, Op: "open", Err: err}
	}
	return &FileStore{dir: dir}, nil
}

// IndexPath returns the path to the session index YAML file
func (f *FileStore) IndexPath() string {
	return filepath.Join(f.dir, "sessions.yaml")
}

// SessionPath returns the path to a session's record file
func (f *FileStore) SessionPath(sessionID string) string {
	name := sessionID
	if !safeSessionName.MatchString(sessionID) || strings.HasPrefix(sessionID, "enc_") {
		name = "enc_" + hex.EncodeToString([]byte(sessionID))
	}
	return filepath.Join(f.dir, fmt.Sprintf("session_%s.json", name))
}

func (f *FileStore) Append(ctx context.Context, sessionID string, rec internal.AnalysisRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.loadRecords(sessionID)
	if err != nil {
		return f.fail("append", sessionID, err)
	}
	records = append(records, rec)
	if err := writeJSON(f.SessionPath(sessionID), records); err != nil {
		return f.fail("append", sessionID, err)
	}

	index, err := f.loadIndex()
	if err != nil {
		return f.fail("append", sessionID, err)
	}
	found := false
	for i := range index.Sessions {
		if index.Sessions[i].SessionID == sessionID {
			index.Sessions[i].LastActivity = rec.Timestamp
			index.Sessions[i].TotalAnalyses = len(records)
			found = true
			break
		}
	}
	if !found {
		index.Sessions = append(index.Sessions, internal.SessionSummary{
			SessionID:     sessionID,
			CreatedAt:     records[0].Timestamp,
			LastActivity:  rec.Timestamp,
			TotalAnalyses: len(records),
		})
	}
	if err := f.saveIndex(index); err != nil {
		return f.fail("append", sessionID, err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context, sessionID string) ([]internal.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.loadRecords(sessionID)
	if err != nil {
		return nil, f.fail("list", sessionID, err)
	}
	return records, nil
}

func (f *FileStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.SessionPath(sessionID)); err != nil && !os.IsNotExist(err) {
		return f.fail("delete", sessionID, err)
	}
	index, err := f.loadIndex()
	if err != nil {
		return f.fail("delete", sessionID, err)
	}
	kept := index.Sessions[:0]
	for _, s := range index.Sessions {
		if s.SessionID != sessionID {
			kept = append(kept, s)
		}
	}
	index.Sessions = kept
	if err := f.saveIndex(index); err != nil {
		return f.fail("delete", sessionID, err)
	}
	return nil
}

func (f *FileStore) Sessions(ctx context.Context, limit int) ([]internal.SessionSummary, error) {
	f.mu.Lock()
	index, err := f.loadIndex()
	f.mu.Unlock()
	if err != nil {
		return nil, f.fail("sessions", "", err)
	}
	return sortSummaries(index.Sessions, limit), nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) loadRecords(sessionID string) ([]internal.AnalysisRecord, error) {
	data, err := os.ReadFile(f.SessionPath(sessionID))
	if errors.Is(err, os.ErrNotExist) {
		return []internal.AnalysisRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records []internal.AnalysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return records, nil
}

func (f *FileStore) loadIndex() (*SessionIndex, error) {
	data, err := os.ReadFile(f.IndexPath())
	if errors.Is(err, os.ErrNotExist) {
		return &SessionIndex{Version: fileStoreVersion}, nil
	}
	if err != nil {
		return nil, err
	}
	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return &index, nil
}

func (f *FileStore) saveIndex(index *SessionIndex) error {
	index.Version = fileStoreVersion
	index.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return writeAtomic(f.IndexPath(), data)
}

func (f *FileStore) fail(op, sessionID string, err error) error {
	return &internal.StorageError{Backend: internal.BackendFile, Op: op, SessionID: sessionID, Err: err}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return writeAtomic(path, data)
}

// writeAtomic replaces path via a temp file and rename
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
