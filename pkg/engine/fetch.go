package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/codec"
	"github.com/diamonddb/diamond-node/pkg/file"
)

// Fetch reads a single persisted record. The returned record carries its
// global id under catalog.IDKey.
func (e *Engine) Fetch(ctx context.Context, tableName string, id int64) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, ok := e.catalog.Get(tableName)

	if !ok || id < 0 {
		return nil, &NotFoundError{Table: tableName, ID: id}
	}

	key := file.KeyForRecord(table.Name, id, e.config.PageSize)
	path := key.FileName()

	data, err := e.fileSystem.ReadFile(path)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Table: table.Name, ID: id, Err: err}
		}

		slog.Error("Error reading page", "file", path, "error", err)

		return nil, &IOError{Op: "fetch", Paths: []string{path}, Err: err}
	}

	_, slot := file.Locate(id, e.config.PageSize)
	offset := file.SlotOffset(slot, table.Size)

	if offset+table.Size > int64(len(data)) {
		return nil, &NotFoundError{Table: table.Name, ID: id}
	}

	record, err := e.recordCodec.Decode(data[offset:offset+table.Size], table.Schema)

	if err != nil {
		if errors.Is(err, codec.ErrEmptySlot) {
			return nil, &NotFoundError{Table: table.Name, ID: id, Err: err}
		}

		return nil, err
	}

	return record.WithID(id), nil
}
