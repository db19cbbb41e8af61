// Package jsonfile persists the ledger document as one indented JSON
// file, for deployments that run without a database.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

// Load reads the document. A missing or unreadable-as-JSON file is
// reported as absent so the service starts with an empty ledger and the
// next save rewrites the file.
func (s *Store) Load(_ context.Context) (ledger.Document, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.Document{}, false, nil
	}
	if err != nil {
		return ledger.Document{}, false, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc ledger.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledger.Document{}, false, nil
	}
	return doc, true, nil
}

// Save writes the document atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) Save(_ context.Context, doc ledger.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
