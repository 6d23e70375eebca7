package storage

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	internalStorage "github.com/diamonddb/diamond-node/internal/storage"
)

// Data in this driver is stored in a high tier and a low tier. The high tier
// is typically a local file system that serves reads while the low tier
// durably stores files with storage that has S3 compatibility. Every write is
// applied to the high tier and then pushed down to the low tier before it
// returns. Files missing from the high tier are pulled up from the low tier
// when they are first used.
type TieredFileSystemDriver struct {
	highTierFileSystemDriver FileSystemDriver
	lowTierFileSystemDriver  FileSystemDriver
}

// Create a new instance of a tiered file system driver. This driver will manage
// files that are stored on the high and low tier file system.
func NewTieredFileSystemDriver(highTierFileSystemDriver, lowTierFileSystemDriver FileSystemDriver) *TieredFileSystemDriver {
	return &TieredFileSystemDriver{
		highTierFileSystemDriver: highTierFileSystemDriver,
		lowTierFileSystemDriver:  lowTierFileSystemDriver,
	}
}

func (fsd *TieredFileSystemDriver) Append(path string, data []byte) error {
	if err := fsd.pullUp(path); err != nil {
		return err
	}

	if err := fsd.highTierFileSystemDriver.Append(path, data); err != nil {
		return err
	}

	return fsd.pushDown(path)
}

func (fsd *TieredFileSystemDriver) MkdirAll(path string, perm fs.FileMode) error {
	return fsd.highTierFileSystemDriver.MkdirAll(path, perm)
}

// The low tier holds every file, so directories are listed from it.
func (fsd *TieredFileSystemDriver) ReadDir(path string) ([]internalStorage.DirEntry, error) {
	return fsd.lowTierFileSystemDriver.ReadDir(path)
}

func (fsd *TieredFileSystemDriver) ReadFile(path string) ([]byte, error) {
	data, err := fsd.highTierFileSystemDriver.ReadFile(path)

	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return data, err
	}

	data, err = fsd.lowTierFileSystemDriver.ReadFile(path)

	if err != nil {
		return nil, err
	}

	if err := fsd.highTierFileSystemDriver.WriteFile(path, data, 0600); err != nil {
		slog.Warn("Error caching file on the high tier", "file", path, "error", err)
	}

	return data, nil
}

func (fsd *TieredFileSystemDriver) Remove(path string) error {
	if err := fsd.lowTierFileSystemDriver.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := fsd.highTierFileSystemDriver.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (fsd *TieredFileSystemDriver) RemoveAll(path string) error {
	if err := fsd.lowTierFileSystemDriver.RemoveAll(path); err != nil {
		return err
	}

	return fsd.highTierFileSystemDriver.RemoveAll(path)
}

func (fsd *TieredFileSystemDriver) Stat(path string) (fs.FileInfo, error) {
	info, err := fsd.highTierFileSystemDriver.Stat(path)

	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return info, err
	}

	return fsd.lowTierFileSystemDriver.Stat(path)
}

func (fsd *TieredFileSystemDriver) WriteAt(path string, data []byte, offset int64) error {
	if err := fsd.pullUp(path); err != nil {
		return err
	}

	if err := fsd.highTierFileSystemDriver.WriteAt(path, data, offset); err != nil {
		return err
	}

	return fsd.pushDown(path)
}

func (fsd *TieredFileSystemDriver) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := fsd.highTierFileSystemDriver.WriteFile(path, data, perm); err != nil {
		return err
	}

	return fsd.lowTierFileSystemDriver.WriteFile(path, data, perm)
}

// Copy the file from the low tier when the high tier does not have it yet so
// partial writes apply to the latest durable contents.
func (fsd *TieredFileSystemDriver) pullUp(path string) error {
	_, err := fsd.highTierFileSystemDriver.Stat(path)

	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return err
	}

	data, err := fsd.lowTierFileSystemDriver.ReadFile(path)

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	return fsd.highTierFileSystemDriver.WriteFile(path, data, 0600)
}

// Push the high tier copy of the file down to the low tier.
func (fsd *TieredFileSystemDriver) pushDown(path string) error {
	data, err := fsd.highTierFileSystemDriver.ReadFile(path)

	if err != nil {
		return err
	}

	if err := fsd.lowTierFileSystemDriver.WriteFile(path, data, 0600); err != nil {
		slog.Error("Error pushing file to the low tier", "file", path, "error", err)
		return err
	}

	return nil
}
