package codec

import (
	"errors"

	"github.com/diamonddb/diamond-node/pkg/catalog"
)

// ErrEmptySlot is returned when decoding a slot that was never written.
var ErrEmptySlot = errors.New("slot has not been written")

// RecordCodec converts records to and from their fixed-width encoding. Encode
// must return exactly table.Size bytes.
type RecordCodec interface {
	Decode(data []byte, schema []catalog.Field) (catalog.Record, error)
	Encode(table *catalog.Table, record catalog.Record) ([]byte, error)
}

// TableCodec converts table definitions to and from the meta file format.
// Serialized definitions are concatenated, so Parse must accept any number of
// them; a later definition of a table replaces an earlier one.
type TableCodec interface {
	Parse(data []byte) (map[string]*catalog.Table, error)
	Serialize(table *catalog.Table) ([]byte, error)
}
