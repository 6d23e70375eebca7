package test

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/diamonddb/diamond-node/pkg/storage"
)

var ErrInjected = errors.New("injected failure")

// FaultyDriver wraps a driver and fails a configured number of reads or
// writes per path before delegating again.
type FaultyDriver struct {
	storage.FileSystemDriver
	failReads  map[string]int
	failWrites map[string]int
	hooks      map[string]func()
	mutex      sync.Mutex
	reads      map[string]int
	writes     int
}

func NewFaultyDriver(driver storage.FileSystemDriver) *FaultyDriver {
	return &FaultyDriver{
		FileSystemDriver: driver,
		failReads:        make(map[string]int),
		failWrites:       make(map[string]int),
		hooks:            make(map[string]func()),
		reads:            make(map[string]int),
	}
}

// Fail the next n reads of the path.
func (d *FaultyDriver) FailReads(path string, n int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.failReads[path] = n
}

// Fail the next n writes of the path.
func (d *FaultyDriver) FailWrites(path string, n int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.failWrites[path] = n
}

// OnRead runs hook before every read of the path, after the read has been
// counted.
func (d *FaultyDriver) OnRead(path string, hook func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.hooks[path] = hook
}

// Return the number of read attempts made for the path.
func (d *FaultyDriver) Reads(path string) int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.reads[path]
}

// Return the number of writes of any kind that reached the driver.
func (d *FaultyDriver) Writes() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.writes
}

func (d *FaultyDriver) shouldFail(failures map[string]int, path string) bool {
	if failures[path] > 0 {
		failures[path]--
		return true
	}

	return false
}

func (d *FaultyDriver) Append(path string, data []byte) error {
	d.mutex.Lock()
	d.writes++
	fail := d.shouldFail(d.failWrites, path)
	d.mutex.Unlock()

	if fail {
		return ErrInjected
	}

	return d.FileSystemDriver.Append(path, data)
}

func (d *FaultyDriver) ReadFile(path string) ([]byte, error) {
	d.mutex.Lock()
	d.reads[path]++
	fail := d.shouldFail(d.failReads, path)
	hook := d.hooks[path]
	d.mutex.Unlock()

	if hook != nil {
		hook()
	}

	if fail {
		return nil, ErrInjected
	}

	return d.FileSystemDriver.ReadFile(path)
}

func (d *FaultyDriver) WriteAt(path string, data []byte, offset int64) error {
	d.mutex.Lock()
	d.writes++
	fail := d.shouldFail(d.failWrites, path)
	d.mutex.Unlock()

	if fail {
		return ErrInjected
	}

	return d.FileSystemDriver.WriteAt(path, data, offset)
}

func (d *FaultyDriver) WriteFile(path string, data []byte, perm fs.FileMode) error {
	d.mutex.Lock()
	d.writes++
	fail := d.shouldFail(d.failWrites, path)
	d.mutex.Unlock()

	if fail {
		return ErrInjected
	}

	return d.FileSystemDriver.WriteFile(path, data, perm)
}
