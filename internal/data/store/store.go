package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-focus-monitor/internal/util"
)

const (
	stableExt = ".json"
	backupExt = ".json.bak"
	tempExt   = ".*.tmp"
)

// ReadSource tells where a Read got its document from
type ReadSource int

const (
	SourceStable ReadSource = iota
	SourceBackup
	SourceEmpty
)

func (s ReadSource) String() string {
	switch s {
	case SourceStable:
		return "stable"
	case SourceBackup:
		return "backup"
	default:
		return "empty"
	}
}

// ReadResult describes the outcome of a Read
type ReadResult struct {
	Source ReadSource
	// Healed is set when a backup was promoted back to the stable path
	Healed bool
	// StableErr and BackupErr hold why each candidate was rejected
	StableErr error
	BackupErr error
}

// Store owns a working directory of JSON documents, each with a backup sibling.
type Store struct {
	baseDir string
	mu      sync.Mutex
	docs    map[string]*Document
}

// New creates the working directory if needed. Failing to create it is the only fatal storage error.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}

	return &Store{
		baseDir: baseDir,
		docs:    make(map[string]*Document),
	}, nil
}

// Dir returns the working directory
func (s *Store) Dir() string {
	return s.baseDir
}

// Document returns the handle for key, creating it on first use
func (s *Store) Document(key string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.docs[key]; ok {
		return doc
	}
	doc := &Document{
		key:         key,
		stablePath:  filepath.Join(s.baseDir, key+stableExt),
		backupPath:  filepath.Join(s.baseDir, key+backupExt),
		tempPattern: key + tempExt,
	}
	s.docs[key] = doc
	return doc
}

// Document is a single named JSON document stored crash-safely.
//
// Write ordering: a temp file unique to this write is written and synced, the previous
// stable file becomes the backup, then the temp file is renamed into place. A reader
// therefore sees the old document, the new document, or a missing stable file covered by
// the backup. The mutex only serializes callers within one process; other processes
// sharing the directory should read with ReadOnly.
type Document struct {
	key         string
	stablePath  string
	backupPath  string
	tempPattern string
	mu          sync.Mutex
}

func (d *Document) Key() string        { return d.key }
func (d *Document) Path() string       { return d.stablePath }
func (d *Document) BackupPath() string { return d.backupPath }

// Write serializes v and atomically replaces the stable document
func (d *Document) Write(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", d.key, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeLocked(data)
}

func (d *Document) writeLocked(data []byte) error {
	tempPath, err := writeTemp(filepath.Dir(d.stablePath), d.tempPattern, data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", d.key, err)
	}

	// Best effort: keep the previous stable copy as the backup
	if _, err := os.Stat(d.stablePath); err == nil {
		if err := os.Rename(d.stablePath, d.backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			// Some platforms refuse to rename over an existing file
			os.Remove(d.backupPath)
			if err := os.Rename(d.stablePath, d.backupPath); err != nil {
				util.LogWarnf("Failed to rotate backup for %s: %v", d.key, err)
			}
		}
	}

	if err := os.Rename(tempPath, d.stablePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", d.key, err)
	}

	syncDir(filepath.Dir(d.stablePath))
	util.LogDebug("Document saved", util.F("document", d.key), util.F("bytes", len(data)))
	return nil
}

// Read decodes the document into out, which must be a non-nil pointer.
//
// The stable file is tried first, then the backup. A good backup is promoted back to the
// stable path. When neither can be decoded out is reset to its zero value. Read never
// fails; the result reports which copy was used.
func (d *Document) Read(out any) ReadResult {
	return d.read(out, true)
}

// ReadOnly is Read without promoting the backup. A missing stable file may just be a
// write in flight in another process, so readers that do not own the document use this.
func (d *Document) ReadOnly(out any) ReadResult {
	return d.read(out, false)
}

func (d *Document) read(out any, heal bool) ReadResult {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		panic(fmt.Sprintf("store: Read of %s needs a non-nil pointer, got %T", d.key, out))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var result ReadResult

	value, _, err := decodeFile(d.stablePath, target.Type().Elem())
	if err == nil {
		target.Elem().Set(value)
		result.Source = SourceStable
		return result
	}
	result.StableErr = err

	value, raw, err := decodeFile(d.backupPath, target.Type().Elem())
	if err == nil {
		target.Elem().Set(value)
		result.Source = SourceBackup
		if !errors.Is(result.StableErr, os.ErrNotExist) {
			util.LogWarn("Recovered document from backup", util.F("document", d.key), util.F("reason", result.StableErr))
		}

		if !heal {
			return result
		}

		// Heal: drop the unusable stable copy so rotation keeps the good backup
		os.Remove(d.stablePath)
		if err := d.writeLocked(raw); err != nil {
			util.LogWarnf("Failed to restore %s from backup: %v", d.key, err)
		} else {
			result.Healed = true
		}
		return result
	}
	result.BackupErr = err

	target.Elem().Set(reflect.Zero(target.Type().Elem()))
	result.Source = SourceEmpty
	if !errors.Is(result.StableErr, os.ErrNotExist) || !errors.Is(result.BackupErr, os.ErrNotExist) {
		util.LogError("Document unreadable, starting empty", util.F("document", d.key),
			util.F("stable", result.StableErr), util.F("backup", result.BackupErr))
	}
	return result
}

// decodeFile reads path and decodes it into a fresh value of typ
func decodeFile(path string, typ reflect.Type) (reflect.Value, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	if !sonic.Valid(data) {
		return reflect.Value{}, nil, fmt.Errorf("malformed document %s", filepath.Base(path))
	}

	ptr := reflect.New(typ)
	if err := sonic.Unmarshal(data, ptr.Interface()); err != nil {
		return reflect.Value{}, nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return ptr.Elem(), data, nil
}

// writeTemp writes data to a new temp file in dir and forces it to stable storage.
// The file is removed on failure.
func writeTemp(dir, pattern string, data []byte) (string, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	path := file.Name()

	fail := func(err error) (string, error) {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Chmod(0644); err != nil {
		return fail(err)
	}
	if _, err := file.Write(data); err != nil {
		return fail(err)
	}
	if err := file.Sync(); err != nil {
		return fail(err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// syncDir persists the directory entry after a rename. Not all platforms support it.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	f.Sync()
	f.Close()
}
