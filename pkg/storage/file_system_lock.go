package storage

import (
	"sync"
)

type FileSystemLockEntry struct {
	count int
	mutex sync.RWMutex
}

// FileSystemLock hands out a read/write lock per path. Entries are removed
// once no caller holds or waits on them.
type FileSystemLock struct {
	entries map[string]*FileSystemLockEntry
	mutex   sync.Mutex
}

func NewFileSystemLock() *FileSystemLock {
	return &FileSystemLock{
		entries: make(map[string]*FileSystemLockEntry),
	}
}

func (fsl *FileSystemLock) acquire(path string) *FileSystemLockEntry {
	fsl.mutex.Lock()
	defer fsl.mutex.Unlock()

	entry, ok := fsl.entries[path]

	if !ok {
		entry = &FileSystemLockEntry{}
		fsl.entries[path] = entry
	}

	entry.count++

	return entry
}

func (fsl *FileSystemLock) release(path string, entry *FileSystemLockEntry) {
	fsl.mutex.Lock()
	defer fsl.mutex.Unlock()

	entry.count--

	if entry.count == 0 {
		delete(fsl.entries, path)
	}
}

// Acquire a shared lock on the path. The returned function releases it.
func (fsl *FileSystemLock) RLock(path string) func() {
	entry := fsl.acquire(path)
	entry.mutex.RLock()

	return func() {
		entry.mutex.RUnlock()
		fsl.release(path, entry)
	}
}

// Acquire an exclusive lock on the path. The returned function releases it.
func (fsl *FileSystemLock) Lock(path string) func() {
	entry := fsl.acquire(path)
	entry.mutex.Lock()

	return func() {
		entry.mutex.Unlock()
		fsl.release(path, entry)
	}
}

// Return the number of paths currently tracked.
func (fsl *FileSystemLock) Len() int {
	fsl.mutex.Lock()
	defer fsl.mutex.Unlock()

	return len(fsl.entries)
}
