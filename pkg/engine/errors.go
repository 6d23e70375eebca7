package engine

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a record cannot be read back from its page.
type NotFoundError struct {
	Table string
	ID    int64
	Err   error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d of table %s not found: %v", e.ID, e.Table, e.Err)
	}

	return fmt.Sprintf("record %d of table %s not found", e.ID, e.Table)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// PageReadError is returned by a scan when a page could not be read within
// the retry budget.
type PageReadError struct {
	Table     string
	PageIndex int64
	Attempts  int
	Err       error
}

func (e *PageReadError) Error() string {
	return fmt.Sprintf("could not read page %d of table %s after %d attempts: %v", e.PageIndex, e.Table, e.Attempts, e.Err)
}

func (e *PageReadError) Unwrap() error {
	return e.Err
}

// IOError is returned when durable storage could not be read or written.
// Paths names every file involved in the failure.
type IOError struct {
	Op    string
	Paths []string
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Op, strings.Join(e.Paths, ", "), e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
