package file

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
)

// PageKey identifies a single page of a table independent of how it is named
// on the underlying file system.
type PageKey struct {
	Table string
	Index int64
}

// Return the file name of the page, e.g. people.0.dat.
func (k PageKey) FileName() string {
	return fmt.Sprintf("%s.%d.dat", k.Table, k.Index)
}

// Return the path of the page relative to the given root.
func (k PageKey) Path(root string) string {
	return filepath.Join(root, k.FileName())
}

func (k PageKey) String() string {
	return k.Table + "#" + strconv.FormatInt(k.Index, 10)
}

// Build the page key for the page that holds the given record id.
func KeyForRecord(table string, id, capacity int64) PageKey {
	pageIndex, _ := Locate(id, capacity)

	return PageKey{Table: table, Index: pageIndex}
}

// Return the path of the page file for the table and page index.
func PageFile(root, table string, pageIndex int64) string {
	return PageKey{Table: table, Index: pageIndex}.Path(root)
}

// Calculate the page index and the slot within that page of the given id.
func Locate(id, capacity int64) (pageIndex int64, slot int64) {
	return id / capacity, id % capacity
}

// Calculate the byte offset of a slot within a page.
func SlotOffset(slot, recordSize int64) int64 {
	return slot * recordSize
}

// Calculate the global id of the record stored in the slot of a page.
func GlobalID(pageIndex, slot, capacity int64) int64 {
	return pageIndex*capacity + slot
}

// Calculate the number of pages needed to hold the ids below index.
func PageCount(index, capacity int64) int64 {
	if index <= 0 {
		return 0
	}

	count := index / capacity

	if index%capacity != 0 {
		count++
	}

	return count
}

// Return the highest record id that can be addressed with the given page
// capacity while the index past it still fits in an int64.
func MaxID(capacity int64) int64 {
	return math.MaxInt64 - capacity
}
