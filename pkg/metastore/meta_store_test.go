package metastore_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/codec"
	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/diamonddb/diamond-node/pkg/metastore"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

func peopleTable() *catalog.Table {
	return catalog.NewTable("people",
		catalog.Field{Name: "name", Type: catalog.FieldTypeString, Width: 15},
		catalog.Field{Name: "age", Type: catalog.FieldTypeNumber, Width: 3},
	)
}

func newMetaStore(c *config.Config, fs *storage.FileSystem) *metastore.MetaStore {
	return metastore.NewMetaStore(fs, c.MetaFileName, codec.NewJSONTableCodec())
}

func TestLoadCreatesMissingMetaFile(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		store := newMetaStore(c, fs)

		tables, err := store.Load()

		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		if len(tables) != 0 {
			t.Errorf("expected no tables, got %d", len(tables))
		}

		if _, err := fs.Stat(c.MetaFileName); err != nil {
			t.Errorf("expected the meta file to be created, got %v", err)
		}

		tables, err = store.Load()

		if err != nil || len(tables) != 0 {
			t.Errorf("Load() of an empty meta file = %v, %v", tables, err)
		}
	})
}

func TestCreateTableAppends(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		store := newMetaStore(c, fs)

		if err := store.CreateTable(peopleTable()); err != nil {
			t.Fatalf("CreateTable() returned an error: %v", err)
		}

		pets := catalog.NewTable("pets", catalog.Field{Name: "kind", Type: catalog.FieldTypeString, Width: 8})

		if err := store.CreateTable(pets); err != nil {
			t.Fatalf("CreateTable() returned an error: %v", err)
		}

		data, _ := fs.ReadFile(c.MetaFileName)

		if lines := strings.Count(string(data), "\n"); lines != 2 {
			t.Errorf("expected 2 appended definitions, got %d", lines)
		}

		tables, err := store.Load()

		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		if len(tables) != 2 || tables[0].Name != "people" || tables[1].Name != "pets" {
			t.Errorf("unexpected tables %v", tables)
		}
	})
}

func TestCreateTableValidation(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		store := newMetaStore(c, fs)

		for _, table := range []*catalog.Table{nil, catalog.NewTable("people")} {
			err := store.CreateTable(table)

			var validationError *catalog.ValidationError

			if !errors.As(err, &validationError) {
				t.Errorf("expected a validation error, got %v", err)
			}
		}

		if _, err := fs.Stat(c.MetaFileName); err == nil {
			t.Error("an invalid table should not touch the meta file")
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		store := newMetaStore(c, fs)
		people := peopleTable()

		if err := store.CreateTable(people); err != nil {
			t.Fatalf("CreateTable() returned an error: %v", err)
		}

		advanced := people.Clone()
		advanced.Index = 12

		if err := store.Snapshot(map[string]*catalog.Table{"people": advanced}); err != nil {
			t.Fatalf("Snapshot() returned an error: %v", err)
		}

		data, _ := fs.ReadFile(c.MetaFileName)

		if lines := strings.Count(string(data), "\n"); lines != 1 {
			t.Errorf("expected the snapshot to rewrite the file with 1 definition, got %d", lines)
		}

		tables, err := store.Load()

		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		if len(tables) != 1 || !tables[0].SameShape(people) {
			t.Fatalf("reloaded table %+v does not match %+v", tables, people)
		}

		if tables[0].Index != 12 {
			t.Errorf("expected index 12, got %d", tables[0].Index)
		}
	})
}

func TestSnapshotWithoutMappingIsNoop(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		store := newMetaStore(c, fs)

		if err := store.Snapshot(nil); err != nil {
			t.Fatalf("Snapshot() returned an error: %v", err)
		}

		if _, err := fs.Stat(c.MetaFileName); err == nil {
			t.Error("Snapshot(nil) should not create the meta file")
		}
	})
}

func TestLoadUnreadableMetaFile(t *testing.T) {
	c := test.Setup(t)
	driver := test.NewFaultyDriver(storage.NewLocalFileSystemDriver(c.DataPath))
	store := newMetaStore(c, storage.NewFileSystem(driver))

	driver.FailReads(c.MetaFileName, 1)

	if _, err := store.Load(); !errors.Is(err, test.ErrInjected) {
		t.Errorf("expected the read error to be returned, got %v", err)
	}
}

func TestLoadCorruptMetaFile(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		if err := fs.WriteFile(c.MetaFileName, []byte("not a table\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := newMetaStore(c, fs).Load(); err == nil {
			t.Error("expected an error for a corrupt meta file")
		}
	})
}
