package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/codec"
	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/diamonddb/diamond-node/pkg/file"
	"github.com/diamonddb/diamond-node/pkg/metastore"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

// Engine stores the records of every table on fixed-size pages. Records are
// buffered in memory until the next persist and only persisted records are
// visible to fetches and scans.
type Engine struct {
	catalog      *catalog.Catalog
	config       *config.Config
	fileSystem   *storage.FileSystem
	metaStore    *metastore.MetaStore
	persistMutex sync.Mutex
	recordCodec  codec.RecordCodec
	tableCodec   codec.TableCodec
	writeBuffer  *WriteBuffer
}

type Option func(*Engine)

// Use a custom codec for encoding records on pages.
func WithRecordCodec(recordCodec codec.RecordCodec) Option {
	return func(e *Engine) {
		e.recordCodec = recordCodec
	}
}

// Use a custom codec for the table definitions in the meta file.
func WithTableCodec(tableCodec codec.TableCodec) Option {
	return func(e *Engine) {
		e.tableCodec = tableCodec
	}
}

// New creates an engine storing its pages and meta file on the file system.
func New(c *config.Config, fileSystem *storage.FileSystem, options ...Option) *Engine {
	e := &Engine{
		catalog:     catalog.NewCatalog(),
		config:      c,
		fileSystem:  fileSystem,
		recordCodec: codec.NewFixedWidthCodec(),
		tableCodec:  codec.NewJSONTableCodec(),
		writeBuffer: NewWriteBuffer(),
	}

	for _, option := range options {
		option(e)
	}

	e.metaStore = metastore.NewMetaStore(fileSystem, c.MetaFileName, e.tableCodec)

	return e
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// CreateTable records a new table and appends its definition to the meta
// file. A zero size is computed from the schema.
func (e *Engine) CreateTable(ctx context.Context, table *catalog.Table) error {
	if table == nil {
		return catalog.NewFieldValidationError("table", "The table definition is required")
	}

	table = table.Clone()

	if table.Size == 0 {
		table.Size = table.RecordSize()
	}

	if err := table.Validate(); err != nil {
		return err
	}

	if _, ok := e.catalog.Get(table.Name); ok {
		return catalog.NewFieldValidationError("name", fmt.Sprintf("The table %s already exists", table.Name))
	}

	if err := e.metaStore.CreateTable(table); err != nil {
		var validationError *catalog.ValidationError

		if errors.As(err, &validationError) {
			return err
		}

		return &IOError{Op: "create table", Paths: []string{e.metaStore.Path()}, Err: err}
	}

	e.catalog.Put(table)

	slog.Debug("Table created", "table", table.Name, "size", table.Size)

	return nil
}

// Initialize loads the table definitions from the meta file, creating the
// meta file when it does not exist yet.
func (e *Engine) Initialize(ctx context.Context) ([]*catalog.Table, error) {
	tables, err := e.metaStore.Load()

	if err != nil {
		slog.Error("Error initializing persistence", "file", e.metaStore.Path(), "error", err)

		return nil, &IOError{Op: "initialize", Paths: []string{e.metaStore.Path()}, Err: err}
	}

	e.catalog.Load(tables)

	return e.catalog.Tables(), nil
}

// Pending returns the number of records waiting for the next persist.
func (e *Engine) Pending() int {
	return e.writeBuffer.Len()
}

// StoreRecord encodes the record and buffers it under the id. The record is
// not visible until the next persist.
func (e *Engine) StoreRecord(ctx context.Context, tableName string, id int64, record catalog.Record) error {
	table, ok := e.catalog.Get(tableName)

	if !ok {
		return catalog.NewFieldValidationError("table", fmt.Sprintf("The table %s does not exist", tableName))
	}

	if id < 0 {
		return catalog.NewFieldValidationError("id", "The record id cannot be negative")
	}

	if id > file.MaxID(e.config.PageSize) {
		return catalog.NewFieldValidationError("id", fmt.Sprintf("The record id cannot be greater than %d", file.MaxID(e.config.PageSize)))
	}

	data, err := e.recordCodec.Encode(table, record)

	if err != nil {
		return err
	}

	if int64(len(data)) != table.Size {
		return fmt.Errorf("record codec returned %d bytes for table %s, expected %d", len(data), table.Name, table.Size)
	}

	e.writeBuffer.Enqueue(WriteBufferEntry{
		Table:  table.Name,
		ID:     id,
		Record: record,
		Data:   data,
	})

	return nil
}

// UpdateMeta records the table mapping supplied by the cluster. It is written
// to the meta file with the next persist.
func (e *Engine) UpdateMeta(ctx context.Context, tables map[string]*catalog.Table) error {
	recorded := make(map[string]*catalog.Table, len(tables))

	for name, table := range tables {
		if table == nil {
			return catalog.NewFieldValidationError(name, "The table definition is required")
		}

		next := table.Clone()
		next.Name = name

		if next.Size == 0 {
			next.Size = next.RecordSize()
		}

		if err := next.Validate(); err != nil {
			return err
		}

		recorded[name] = next
	}

	e.catalog.Record(recorded)

	return nil
}
