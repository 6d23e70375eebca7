package storage

import (
	"io/fs"
	"os"
	"path/filepath"

	internalStorage "github.com/diamonddb/diamond-node/internal/storage"
	"github.com/diamonddb/diamond-node/pkg/file"
)

type LocalFileSystemDriver struct {
	basePath string
}

func NewLocalFileSystemDriver(basePath string) *LocalFileSystemDriver {
	return &LocalFileSystemDriver{
		basePath: basePath,
	}
}

func (fs *LocalFileSystemDriver) Append(path string, data []byte) error {
	fullPath := fs.Path(path)

	if err := file.EnsureDirectoryExists(fullPath); err != nil {
		return err
	}

	f, err := os.OpenFile(fullPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)

	if err != nil {
		return err
	}

	_, err = f.Write(data)

	if err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (fs *LocalFileSystemDriver) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(fs.Path(path), perm)
}

func (fs *LocalFileSystemDriver) Path(path string) string {
	return filepath.Join(fs.basePath, path)
}

func (fs *LocalFileSystemDriver) ReadDir(path string) ([]internalStorage.DirEntry, error) {
	entries, err := os.ReadDir(fs.Path(path))

	if err != nil {
		return nil, err
	}

	dirEntries := make([]internalStorage.DirEntry, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()

		if err != nil {
			return nil, err
		}

		dirEntries = append(dirEntries, internalStorage.NewDirEntry(
			entry.Name(),
			entry.IsDir(),
			info,
		))
	}

	return dirEntries, nil
}

func (fs *LocalFileSystemDriver) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(fs.Path(path))
}

func (fs *LocalFileSystemDriver) Remove(path string) error {
	return os.Remove(fs.Path(path))
}

func (fs *LocalFileSystemDriver) RemoveAll(path string) error {
	return os.RemoveAll(fs.Path(path))
}

func (fs *LocalFileSystemDriver) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(fs.Path(path))
}

func (fs *LocalFileSystemDriver) WriteAt(path string, data []byte, offset int64) error {
	fullPath := fs.Path(path)

	if err := file.EnsureDirectoryExists(fullPath); err != nil {
		return err
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY, 0600)

	if err != nil {
		return err
	}

	_, err = f.WriteAt(data, offset)

	if err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Write the file to a temporary path and rename it into place so the file is
// replaced in a single step.
func (fs *LocalFileSystemDriver) WriteFile(path string, data []byte, perm fs.FileMode) error {
	fullPath := fs.Path(path)

	if err := file.EnsureDirectoryExists(fullPath); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), filepath.Base(fullPath)+".*.tmp")

	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}
