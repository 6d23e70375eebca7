package storage

import (
	"fmt"

	"github.com/diamonddb/diamond-node/pkg/config"
)

// Create the file system for the storage mode in the configuration.
func NewFileSystemFromConfig(c *config.Config) (*FileSystem, error) {
	switch c.StorageMode {
	case config.StorageModeLocal, "":
		return NewFileSystem(NewLocalFileSystemDriver(c.DataPath)), nil
	case config.StorageModeObject:
		driver, err := newObjectDriverFromConfig(c)

		if err != nil {
			return nil, err
		}

		return NewFileSystem(driver), nil
	case config.StorageModeTiered:
		driver, err := newObjectDriverFromConfig(c)

		if err != nil {
			return nil, err
		}

		return NewFileSystem(NewTieredFileSystemDriver(
			NewLocalFileSystemDriver(c.DataPath),
			driver,
		)), nil
	}

	return nil, fmt.Errorf("unknown storage mode %q", c.StorageMode)
}

func newObjectDriverFromConfig(c *config.Config) (*ObjectFileSystemDriver, error) {
	driver, err := NewObjectFileSystemDriver(c)

	if err != nil {
		return nil, err
	}

	if c.FakeObjectStorage {
		if err := driver.EnsureBucketExists(); err != nil {
			return nil, err
		}
	}

	return driver, nil
}
