package test

import (
	"testing"

	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/diamonddb/diamond-node/pkg/storage"
)

// Setup prepares the environment for a test and returns a configuration whose
// data path is a temporary directory removed when the test ends.
func Setup(t testing.TB) *config.Config {
	t.Helper()

	setTestEnvVariable(t)
	t.Setenv("DIAMOND_DATA_PATH", t.TempDir())

	return config.NewConfig()
}

// Create a file system backed by the local driver rooted at the data path.
func NewLocalFileSystem(t testing.TB, c *config.Config) *storage.FileSystem {
	t.Helper()

	return storage.NewFileSystem(storage.NewLocalFileSystemDriver(c.DataPath))
}

// Create a file system backed by the object driver and an in-memory client.
func NewObjectFileSystem(t testing.TB, c *config.Config) *storage.FileSystem {
	t.Helper()

	driver := storage.NewObjectFileSystemDriverWithClient(NewObjectClient(), c.StorageBucket)

	if err := driver.EnsureBucketExists(); err != nil {
		t.Fatalf("could not create test bucket: %v", err)
	}

	return storage.NewFileSystem(driver)
}

// Create a file system that keeps pages on local disk and pushes them down to
// an in-memory object store.
func NewTieredFileSystem(t testing.TB, c *config.Config) *storage.FileSystem {
	t.Helper()

	lowTier := storage.NewObjectFileSystemDriverWithClient(NewObjectClient(), c.StorageBucket)

	if err := lowTier.EnsureBucketExists(); err != nil {
		t.Fatalf("could not create test bucket: %v", err)
	}

	return storage.NewFileSystem(storage.NewTieredFileSystemDriver(
		storage.NewLocalFileSystemDriver(c.DataPath),
		lowTier,
	))
}

// Run the callback once against each file system driver.
func RunWithFileSystems(t *testing.T, callback func(t *testing.T, c *config.Config, fs *storage.FileSystem)) {
	t.Run(config.StorageModeLocal, func(t *testing.T) {
		c := Setup(t)
		callback(t, c, NewLocalFileSystem(t, c))
	})

	t.Run(config.StorageModeObject, func(t *testing.T) {
		c := Setup(t)
		callback(t, c, NewObjectFileSystem(t, c))
	})

	t.Run(config.StorageModeTiered, func(t *testing.T) {
		c := Setup(t)
		callback(t, c, NewTieredFileSystem(t, c))
	})
}
