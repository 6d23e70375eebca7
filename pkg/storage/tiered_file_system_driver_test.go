package storage_test

import (
	"errors"
	"os"
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

func newTieredDriver(t *testing.T) (*storage.TieredFileSystemDriver, *storage.LocalFileSystemDriver, *storage.ObjectFileSystemDriver) {
	c := test.Setup(t)

	highTier := storage.NewLocalFileSystemDriver(c.DataPath)
	lowTier := storage.NewObjectFileSystemDriverWithClient(test.NewObjectClient(), c.StorageBucket)

	if err := lowTier.EnsureBucketExists(); err != nil {
		t.Fatalf("EnsureBucketExists() returned an error: %v", err)
	}

	return storage.NewTieredFileSystemDriver(highTier, lowTier), highTier, lowTier
}

func TestTieredFileSystemDriverWritesThrough(t *testing.T) {
	driver, highTier, lowTier := newTieredDriver(t)

	if err := driver.Append("people.0.dat", []byte("abc")); err != nil {
		t.Fatalf("Append() returned an error: %v", err)
	}

	if err := driver.WriteAt("people.0.dat", []byte("xyz"), 3); err != nil {
		t.Fatalf("WriteAt() returned an error: %v", err)
	}

	for name, tier := range map[string]storage.FileSystemDriver{"high": highTier, "low": lowTier} {
		data, err := tier.ReadFile("people.0.dat")

		if err != nil {
			t.Fatalf("%s tier ReadFile() returned an error: %v", name, err)
		}

		if string(data) != "abcxyz" {
			t.Errorf("%s tier holds %q, expected %q", name, data, "abcxyz")
		}
	}
}

func TestTieredFileSystemDriverPullsUpMissingFiles(t *testing.T) {
	driver, highTier, lowTier := newTieredDriver(t)

	if err := lowTier.WriteFile("people.1.dat", []byte("durable"), 0600); err != nil {
		t.Fatalf("WriteFile() returned an error: %v", err)
	}

	if _, err := driver.Stat("people.1.dat"); err != nil {
		t.Errorf("Stat() should fall back to the low tier, got %v", err)
	}

	data, err := driver.ReadFile("people.1.dat")

	if err != nil || string(data) != "durable" {
		t.Fatalf("ReadFile() = %q, %v", data, err)
	}

	if cached, err := highTier.ReadFile("people.1.dat"); err != nil || string(cached) != "durable" {
		t.Errorf("expected the file to be cached on the high tier, got %q, %v", cached, err)
	}

	if err := highTier.Remove("people.1.dat"); err != nil {
		t.Fatal(err)
	}

	if err := driver.Append("people.1.dat", []byte("!")); err != nil {
		t.Fatalf("Append() returned an error: %v", err)
	}

	data, _ = lowTier.ReadFile("people.1.dat")

	if string(data) != "durable!" {
		t.Errorf("expected the append to apply to the durable contents, got %q", data)
	}
}

func TestTieredFileSystemDriverRemove(t *testing.T) {
	driver, highTier, lowTier := newTieredDriver(t)

	if err := driver.WriteFile("meta.txt", []byte("{}"), 0600); err != nil {
		t.Fatalf("WriteFile() returned an error: %v", err)
	}

	if err := driver.Remove("meta.txt"); err != nil {
		t.Fatalf("Remove() returned an error: %v", err)
	}

	for name, tier := range map[string]storage.FileSystemDriver{"high": highTier, "low": lowTier} {
		if _, err := tier.ReadFile("meta.txt"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected the file to be removed from the %s tier, got %v", name, err)
		}
	}

	if err := driver.Remove("missing.txt"); err != nil {
		t.Errorf("removing a missing file should succeed, got %v", err)
	}
}
