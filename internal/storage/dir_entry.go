package storage

import (
	"io/fs"
)

// DirEntry implements fs.DirEntry for drivers that do not list an actual
// directory, such as object storage.
type DirEntry struct {
	name  string
	isDir bool
	info  fs.FileInfo
}

func NewDirEntry(name string, isDir bool, info fs.FileInfo) DirEntry {
	return DirEntry{
		name:  name,
		isDir: isDir,
		info:  info,
	}
}

func (d DirEntry) Info() (fs.FileInfo, error) {
	return d.info, nil
}

func (d DirEntry) IsDir() bool {
	return d.isDir
}

func (d DirEntry) Name() string {
	return d.name
}

func (d DirEntry) Type() fs.FileMode {
	if d.isDir {
		return fs.ModeDir
	}

	return 0
}
