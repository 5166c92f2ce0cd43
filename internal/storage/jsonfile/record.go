package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
)

const filePerm = 0644

// RecordFile persists a memory record as a single JSON document.
type RecordFile struct {
	path string
	mu   sync.RWMutex
}

func NewRecordFile(path string) *RecordFile {
	return &RecordFile{
		path: path,
	}
}

func (f *RecordFile) Path() string {
	return f.path
}

// Load reads the record. A missing file is initialised with an empty record;
// an unreadable or malformed file is an error and is left untouched. Both
// keys must be present and non-null; unknown keys are rejected.
func (f *RecordFile) Load(ctx context.Context) (core.Record, error) {
	f.mu.RLock()
	data, err := os.ReadFile(f.path)
	f.mu.RUnlock()

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.FromCtx(ctx).Info().Str("path", f.path).Msg("memory file not found, creating empty record")

			rec := core.NewRecord()
			if err := f.Save(ctx, rec); err != nil {
				return core.Record{}, err
			}
			return rec, nil
		}
		return core.Record{}, fmt.Errorf("%w: read %s: %v", core.ErrStorage, f.path, err)
	}

	return decode(f.path, data)
}

// Save replaces the whole file. The record is written to a sibling temp file first
// and renamed over the target.
func (f *RecordFile) Save(ctx context.Context, rec core.Record) error {
	if rec.History == nil {
		rec.History = []core.Turn{}
	}

	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", core.ErrStorage, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create memory directory: %v", core.ErrStorage, err)
	}

	if err := writeReplace(f.path, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", core.ErrStorage, f.path, err)
	}

	log.FromCtx(ctx).Debug().
		Str("path", f.path).
		Int("history", len(rec.History)).
		Msg("memory record saved")
	return nil
}

// recordDoc mirrors the file layout. Pointers tell a missing or null field
// apart from an empty one.
type recordDoc struct {
	Archive *string       `json:"archive"`
	History *[]*core.Turn `json:"history"`
}

// decode accepts exactly one object with a string archive and an array of
// turn objects. Anything else is reported as corrupt.
func decode(path string, data []byte) (core.Record, error) {
	corrupt := func(format string, args ...any) (core.Record, error) {
		return core.Record{}, fmt.Errorf("%w: parse %s: %s", core.ErrStorage, path, fmt.Sprintf(format, args...))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc recordDoc
	if err := dec.Decode(&doc); err != nil {
		return corrupt("%v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return corrupt("unexpected data after the record")
	}

	if doc.Archive == nil {
		return corrupt("missing archive")
	}
	if doc.History == nil {
		return corrupt("missing history")
	}

	rec := core.Record{
		Archive: *doc.Archive,
		History: make([]core.Turn, 0, len(*doc.History)),
	}
	for i, turn := range *doc.History {
		if turn == nil {
			return corrupt("history[%d] is null", i)
		}
		rec.History = append(rec.History, *turn)
	}
	return rec, nil
}

func encode(rec core.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeReplace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
