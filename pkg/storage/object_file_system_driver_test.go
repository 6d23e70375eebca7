package storage_test

import (
	"bytes"
	"slices"
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

func TestObjectFileSystemDriverCompressesObjects(t *testing.T) {
	client := test.NewObjectClient()
	driver := storage.NewObjectFileSystemDriverWithClient(client, "diamond-test")

	data := bytes.Repeat([]byte("John            20"), 100)

	if err := driver.WriteFile("people.0.dat", data, 0600); err != nil {
		t.Fatalf("WriteFile() returned an error: %v", err)
	}

	if !slices.Equal(client.Keys(), []string{"people.0.dat"}) {
		t.Errorf("unexpected keys %v", client.Keys())
	}

	info, err := driver.Stat("people.0.dat")

	if err != nil {
		t.Fatalf("Stat() returned an error: %v", err)
	}

	if info.Size() != int64(len(data)) {
		t.Errorf("Stat().Size() = %d, expected the decompressed size %d", info.Size(), len(data))
	}

	entries, err := driver.ReadDir("")

	if err != nil {
		t.Fatalf("ReadDir() returned an error: %v", err)
	}

	entryInfo, _ := entries[0].Info()

	if entryInfo.Size() >= int64(len(data)) {
		t.Errorf("expected the stored object to be compressed, got %d bytes", entryInfo.Size())
	}

	read, err := driver.ReadFile("people.0.dat")

	if err != nil {
		t.Fatalf("ReadFile() returned an error: %v", err)
	}

	if !bytes.Equal(read, data) {
		t.Error("ReadFile() did not return the written data")
	}
}

func TestObjectFileSystemDriverReadDirPrefixes(t *testing.T) {
	client := test.NewObjectClient()
	driver := storage.NewObjectFileSystemDriverWithClient(client, "diamond-test")

	for _, key := range []string{"node-1/meta.txt", "node-1/people.0.dat", "node-2/meta.txt", "root.txt"} {
		if err := driver.WriteFile(key, []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile() returned an error: %v", err)
		}
	}

	entries, err := driver.ReadDir("")

	if err != nil {
		t.Fatalf("ReadDir() returned an error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 2 directories and 1 file, got %d entries", len(entries))
	}

	entries, err = driver.ReadDir("node-1")

	if err != nil {
		t.Fatalf("ReadDir() returned an error: %v", err)
	}

	var names []string

	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	if !slices.Equal(names, []string{"meta.txt", "people.0.dat"}) {
		t.Errorf("ReadDir(node-1) = %v", names)
	}

	if err := driver.RemoveAll("node-1/"); err != nil {
		t.Fatalf("RemoveAll() returned an error: %v", err)
	}

	if !slices.Equal(client.Keys(), []string{"node-2/meta.txt", "root.txt"}) {
		t.Errorf("unexpected keys after RemoveAll: %v", client.Keys())
	}
}

func TestObjectFileSystemDriverEnsureBucketExists(t *testing.T) {
	driver := storage.NewObjectFileSystemDriverWithClient(test.NewObjectClient(), "diamond-test")

	if err := driver.EnsureBucketExists(); err != nil {
		t.Fatalf("EnsureBucketExists() returned an error: %v", err)
	}

	if err := driver.EnsureBucketExists(); err != nil {
		t.Fatalf("EnsureBucketExists() on an existing bucket returned an error: %v", err)
	}
}
