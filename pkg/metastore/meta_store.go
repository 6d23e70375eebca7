package metastore

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/codec"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

// MetaStore keeps every table definition in a single meta file. New tables
// are appended to the file and snapshots rewrite it in full.
type MetaStore struct {
	codec      codec.TableCodec
	fileSystem *storage.FileSystem
	path       string
}

func NewMetaStore(fileSystem *storage.FileSystem, path string, tableCodec codec.TableCodec) *MetaStore {
	return &MetaStore{
		codec:      tableCodec,
		fileSystem: fileSystem,
		path:       path,
	}
}

// Append the definition of a new table to the meta file.
func (m *MetaStore) CreateTable(table *catalog.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	data, err := m.codec.Serialize(table)

	if err != nil {
		return fmt.Errorf("could not serialize table %s: %w", table.Name, err)
	}

	if err := m.fileSystem.Append(m.path, data); err != nil {
		slog.Error("Error appending table to meta file", "table", table.Name, "file", m.path, "error", err)
		return err
	}

	return nil
}

// Load the table definitions from the meta file, creating an empty meta file
// when none exists. Tables are returned ordered by name.
func (m *MetaStore) Load() ([]*catalog.Table, error) {
	data, err := m.fileSystem.ReadFile(m.path)

	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("Error reading meta file", "file", m.path, "error", err)
			return nil, err
		}

		if err := m.fileSystem.WriteFile(m.path, []byte{}, 0600); err != nil {
			slog.Error("Error creating meta file", "file", m.path, "error", err)
			return nil, err
		}

		return []*catalog.Table{}, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []*catalog.Table{}, nil
	}

	parsed, err := m.codec.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("could not parse meta file %s: %w", m.path, err)
	}

	tables := make([]*catalog.Table, 0, len(parsed))

	for _, table := range parsed {
		tables = append(tables, table)
	}

	slices.SortFunc(tables, func(a, b *catalog.Table) int {
		return strings.Compare(a.Name, b.Name)
	})

	return tables, nil
}

func (m *MetaStore) Path() string {
	return m.path
}

// Rewrite the meta file with the given tables. A nil mapping means nothing
// has been recorded yet and the meta file is left untouched.
func (m *MetaStore) Snapshot(tables map[string]*catalog.Table) error {
	if tables == nil {
		return nil
	}

	names := make([]string, 0, len(tables))

	for name := range tables {
		names = append(names, name)
	}

	slices.Sort(names)

	var buffer bytes.Buffer

	for _, name := range names {
		data, err := m.codec.Serialize(tables[name])

		if err != nil {
			return fmt.Errorf("could not serialize table %s: %w", name, err)
		}

		buffer.Write(data)
	}

	if err := m.fileSystem.WriteFile(m.path, buffer.Bytes(), 0600); err != nil {
		slog.Error("Error writing meta snapshot", "file", m.path, "error", err)
		return err
	}

	return nil
}
