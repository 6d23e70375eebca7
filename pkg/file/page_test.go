package file_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/diamonddb/diamond-node/pkg/file"
)

func TestLocate(t *testing.T) {
	testCases := []struct {
		id        int64
		capacity  int64
		pageIndex int64
		slot      int64
	}{
		{0, 100, 0, 0},
		{99, 100, 0, 99},
		{100, 100, 1, 0},
		{101, 100, 1, 1},
		{4, 2, 2, 0},
		{5, 2, 2, 1},
	}

	for _, tc := range testCases {
		pageIndex, slot := file.Locate(tc.id, tc.capacity)

		if pageIndex != tc.pageIndex || slot != tc.slot {
			t.Errorf("Locate(%d, %d) = (%d, %d), expected (%d, %d)", tc.id, tc.capacity, pageIndex, slot, tc.pageIndex, tc.slot)
		}
	}
}

func TestLocateRoundTrip(t *testing.T) {
	const capacity = 7
	const recordSize = 18

	offsets := map[int64]int64{}

	for id := int64(0); id < 3*capacity; id++ {
		pageIndex, slot := file.Locate(id, capacity)

		if file.GlobalID(pageIndex, slot, capacity) != id {
			t.Fatalf("GlobalID did not invert Locate for id %d", id)
		}

		offset := file.SlotOffset(slot, recordSize)

		if offset != (id%capacity)*recordSize {
			t.Errorf("SlotOffset for id %d = %d, expected %d", id, offset, (id%capacity)*recordSize)
		}

		if pageIndex == 1 {
			if other, ok := offsets[offset]; ok {
				t.Errorf("ids %d and %d share offset %d on the same page", other, id, offset)
			}

			offsets[offset] = id
		}
	}
}

func TestPageCount(t *testing.T) {
	testCases := []struct {
		index    int64
		capacity int64
		expected int64
	}{
		{0, 2, 0},
		{1, 2, 1},
		{2, 2, 1},
		{5, 2, 3},
		{100, 100, 1},
		{101, 100, 2},
		{-1, 100, 0},
		{math.MaxInt64, 100, math.MaxInt64/100 + 1},
		{math.MaxInt64 - 7, 100, math.MaxInt64 / 100},
	}

	for _, tc := range testCases {
		if count := file.PageCount(tc.index, tc.capacity); count != tc.expected {
			t.Errorf("PageCount(%d, %d) = %d, expected %d", tc.index, tc.capacity, count, tc.expected)
		}
	}
}

func TestPageFile(t *testing.T) {
	path := file.PageFile("data", "people", 3)

	if path != filepath.Join("data", "people.3.dat") {
		t.Errorf("PageFile() = %s", path)
	}

	if file.PageFile("data", "people", 3) != path {
		t.Error("PageFile() is not deterministic")
	}

	key := file.KeyForRecord("people", 205, 100)

	if key != (file.PageKey{Table: "people", Index: 2}) {
		t.Errorf("KeyForRecord() = %v", key)
	}

	if key.FileName() != "people.2.dat" {
		t.Errorf("FileName() = %s", key.FileName())
	}
}
