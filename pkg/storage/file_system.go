package storage

import (
	"io/fs"

	internalStorage "github.com/diamonddb/diamond-node/internal/storage"
)

// The FileSystem struct is used to abstract the underlying file system
// implementation. This allows pages and metadata to live on local disk or in
// object storage. Writes to a path exclude reads of the same path, so readers
// never observe a partially written file.
type FileSystem struct {
	driver FileSystemDriver
	lock   *FileSystemLock
}

// The FileSystemDriver interface defines the methods that must be implemented
// by a file system driver. Paths are relative to the root of the driver.
type FileSystemDriver interface {
	// Append data to the end of the file, creating it if needed.
	Append(path string, data []byte) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(path string) ([]internalStorage.DirEntry, error)
	// ReadFile returns an error matching fs.ErrNotExist for missing files.
	ReadFile(path string) ([]byte, error)
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (fs.FileInfo, error)
	// Write data at the offset, creating the file and zero filling any gap.
	WriteAt(path string, data []byte, offset int64) error
	// Replace the contents of the file in full.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

func NewFileSystem(driver FileSystemDriver) *FileSystem {
	return &FileSystem{
		driver: driver,
		lock:   NewFileSystemLock(),
	}
}

func (fs *FileSystem) Append(path string, data []byte) error {
	defer fs.lock.Lock(path)()

	return fs.driver.Append(path, data)
}

func (fs *FileSystem) Driver() FileSystemDriver {
	return fs.driver
}

func (fs *FileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return fs.driver.MkdirAll(path, perm)
}

func (fs *FileSystem) ReadDir(path string) ([]internalStorage.DirEntry, error) {
	return fs.driver.ReadDir(path)
}

func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	defer fs.lock.RLock(path)()

	return fs.driver.ReadFile(path)
}

func (fs *FileSystem) Remove(path string) error {
	defer fs.lock.Lock(path)()

	return fs.driver.Remove(path)
}

func (fs *FileSystem) RemoveAll(path string) error {
	return fs.driver.RemoveAll(path)
}

func (fs *FileSystem) Stat(path string) (fs.FileInfo, error) {
	defer fs.lock.RLock(path)()

	return fs.driver.Stat(path)
}

func (fs *FileSystem) WriteAt(path string, data []byte, offset int64) error {
	defer fs.lock.Lock(path)()

	return fs.driver.WriteAt(path, data, offset)
}

func (fs *FileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	defer fs.lock.Lock(path)()

	return fs.driver.WriteFile(path, data, perm)
}
