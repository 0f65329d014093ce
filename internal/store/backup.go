package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// BackupStore writes one raw JSON snapshot per data source.
// Each save overwrites the previous snapshot; no history is kept.
type BackupStore struct {
	dir string
}

// NewBackupStore creates a backup store rooted at dir
func NewBackupStore(dir string) *BackupStore {
	if dir == "" {
		dir = "."
	}
	return &BackupStore{dir: dir}
}

var backupOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "    ",
	SortKeys: false,
}

// Save writes body, indented, to backup_<id>.json and returns the path
func (s *BackupStore) Save(id string, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("backup %s: body is not valid JSON", id)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := s.Path(id)
	if err := os.WriteFile(path, pretty.PrettyOptions(body, backupOptions), 0644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}

	return path, nil
}

// Path returns the backup file path for a data source id
func (s *BackupStore) Path(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("backup_%s.json", filepath.Base(id)))
}
