package storage_test

import (
	"bytes"
	"errors"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

func TestFileSystemReadFileNotExist(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		_, err := fs.ReadFile("missing.0.dat")

		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadFile() error = %v, expected os.ErrNotExist", err)
		}

		_, err = fs.Stat("missing.0.dat")

		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Stat() error = %v, expected os.ErrNotExist", err)
		}
	})
}

func TestFileSystemAppend(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		if err := fs.Append("people.0.dat", []byte("abc")); err != nil {
			t.Fatalf("Append() returned an error: %v", err)
		}

		if err := fs.Append("people.0.dat", []byte("def")); err != nil {
			t.Fatalf("Append() returned an error: %v", err)
		}

		data, err := fs.ReadFile("people.0.dat")

		if err != nil {
			t.Fatalf("ReadFile() returned an error: %v", err)
		}

		if string(data) != "abcdef" {
			t.Errorf("ReadFile() = %q, expected %q", data, "abcdef")
		}

		info, err := fs.Stat("people.0.dat")

		if err != nil {
			t.Fatalf("Stat() returned an error: %v", err)
		}

		if info.Size() != 6 {
			t.Errorf("Stat().Size() = %d, expected 6", info.Size())
		}
	})
}

func TestFileSystemWriteAt(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		if err := fs.WriteAt("people.1.dat", []byte("xy"), 4); err != nil {
			t.Fatalf("WriteAt() returned an error: %v", err)
		}

		data, err := fs.ReadFile("people.1.dat")

		if err != nil {
			t.Fatalf("ReadFile() returned an error: %v", err)
		}

		if !bytes.Equal(data, []byte{0, 0, 0, 0, 'x', 'y'}) {
			t.Errorf("ReadFile() = %q, expected a zero filled gap", data)
		}

		if err := fs.WriteAt("people.1.dat", []byte("ab"), 0); err != nil {
			t.Fatalf("WriteAt() returned an error: %v", err)
		}

		data, _ = fs.ReadFile("people.1.dat")

		if !bytes.Equal(data, []byte{'a', 'b', 0, 0, 'x', 'y'}) {
			t.Errorf("ReadFile() = %q after overwrite", data)
		}
	})
}

func TestFileSystemWriteFileReplaces(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		if err := fs.WriteFile("meta.txt", []byte("first version"), 0600); err != nil {
			t.Fatalf("WriteFile() returned an error: %v", err)
		}

		if err := fs.WriteFile("meta.txt", []byte("second"), 0600); err != nil {
			t.Fatalf("WriteFile() returned an error: %v", err)
		}

		data, err := fs.ReadFile("meta.txt")

		if err != nil {
			t.Fatalf("ReadFile() returned an error: %v", err)
		}

		if string(data) != "second" {
			t.Errorf("ReadFile() = %q, expected %q", data, "second")
		}

		if err := fs.WriteFile("empty.txt", nil, 0600); err != nil {
			t.Fatalf("WriteFile() returned an error: %v", err)
		}

		data, err = fs.ReadFile("empty.txt")

		if err != nil || len(data) != 0 {
			t.Errorf("ReadFile() of an empty file = %q, %v", data, err)
		}
	})
}

func TestFileSystemReadDirAndRemove(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		for _, name := range []string{"people.0.dat", "people.1.dat", "pets.0.dat"} {
			if err := fs.Append(name, []byte("x")); err != nil {
				t.Fatalf("Append() returned an error: %v", err)
			}
		}

		entries, err := fs.ReadDir("")

		if err != nil {
			t.Fatalf("ReadDir() returned an error: %v", err)
		}

		var names []string

		for _, entry := range entries {
			names = append(names, entry.Name())
		}

		slices.Sort(names)

		if !slices.Equal(names, []string{"people.0.dat", "people.1.dat", "pets.0.dat"}) {
			t.Errorf("ReadDir() names = %v", names)
		}

		if err := fs.Remove("pets.0.dat"); err != nil {
			t.Fatalf("Remove() returned an error: %v", err)
		}

		if _, err := fs.ReadFile("pets.0.dat"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected the removed file to be gone, got %v", err)
		}
	})
}

func TestFileSystemConcurrentAppends(t *testing.T) {
	test.RunWithFileSystems(t, func(t *testing.T, c *config.Config, fs *storage.FileSystem) {
		var wg sync.WaitGroup

		for i := 0; i < 20; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if err := fs.Append("shared.0.dat", []byte("ab")); err != nil {
					t.Errorf("Append() returned an error: %v", err)
				}
			}()
		}

		wg.Wait()

		data, err := fs.ReadFile("shared.0.dat")

		if err != nil {
			t.Fatalf("ReadFile() returned an error: %v", err)
		}

		if string(data) != string(bytes.Repeat([]byte("ab"), 20)) {
			t.Errorf("concurrent appends interleaved: %q", data)
		}
	})
}

func TestNewFileSystemFromConfig(t *testing.T) {
	c := test.Setup(t)

	fs, err := storage.NewFileSystemFromConfig(c)

	if err != nil {
		t.Fatalf("NewFileSystemFromConfig() returned an error: %v", err)
	}

	if _, ok := fs.Driver().(*storage.LocalFileSystemDriver); !ok {
		t.Errorf("expected a local driver, got %T", fs.Driver())
	}

	c.StorageMode = config.StorageModeTiered

	fs, err = storage.NewFileSystemFromConfig(c)

	if err != nil {
		t.Fatalf("NewFileSystemFromConfig() returned an error: %v", err)
	}

	if _, ok := fs.Driver().(*storage.TieredFileSystemDriver); !ok {
		t.Errorf("expected a tiered driver, got %T", fs.Driver())
	}

	c.StorageMode = "tape"

	if _, err := storage.NewFileSystemFromConfig(c); err == nil {
		t.Error("expected an error for an unknown storage mode")
	}
}
