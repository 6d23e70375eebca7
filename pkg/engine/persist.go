package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/file"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// A contiguous run of slots written to a page with a single write.
type pageRun struct {
	offset int64
	data   []byte
}

// Persist drains the write buffer and writes every buffered record to its
// page. Before any page is written the table indexes are advanced past the
// highest persisted id and the table mapping is snapshotted to the meta file.
func (e *Engine) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.persistMutex.Lock()
	defer e.persistMutex.Unlock()

	entries := e.writeBuffer.Drain()

	if len(entries) == 0 {
		return nil
	}

	start := time.Now()
	persistID := uuid.NewString()
	pages := groupByPage(entries, e.config.PageSize)

	for table, maxID := range highestIDs(pages) {
		e.catalog.Advance(table, maxID+1)
	}

	// No page may be written ahead of the meta file.
	if e.catalog.Recorded() {
		if err := e.metaStore.Snapshot(e.tableMapping()); err != nil {
			slog.Error("Error writing meta snapshot", "persist", persistID, "file", e.metaStore.Path(), "error", err)

			e.writeBuffer.Requeue(entries)

			return &IOError{Op: "persist", Paths: []string{e.metaStore.Path()}, Err: err}
		}
	}

	var failedPaths []string
	var errs []error
	var mutex sync.Mutex
	var group errgroup.Group

	if e.config.ScanConcurrency > 0 {
		group.SetLimit(e.config.ScanConcurrency)
	}

	for key, records := range pages {
		group.Go(func() error {
			path := key.FileName()

			for _, run := range e.pageRuns(records) {
				if err := e.fileSystem.WriteAt(path, run.data, run.offset); err != nil {
					slog.Error("Error writing page", "persist", persistID, "file", path, "error", err)

					mutex.Lock()
					failedPaths = append(failedPaths, path)
					errs = append(errs, err)
					mutex.Unlock()

					return err
				}
			}

			return nil
		})
	}

	group.Wait()

	if len(errs) > 0 {
		slices.Sort(failedPaths)

		return &IOError{Op: "persist", Paths: failedPaths, Err: errors.Join(errs...)}
	}

	slog.Debug("Persisted records", "persist", persistID, "records", len(entries), "pages", len(pages), "duration", time.Since(start))

	return nil
}

// Partition entries by the page holding them. A later entry for an id
// replaces an earlier one.
func groupByPage(entries []WriteBufferEntry, capacity int64) map[file.PageKey]map[int64]WriteBufferEntry {
	pages := make(map[file.PageKey]map[int64]WriteBufferEntry)

	for _, entry := range entries {
		key := file.KeyForRecord(entry.Table, entry.ID, capacity)

		if _, ok := pages[key]; !ok {
			pages[key] = make(map[int64]WriteBufferEntry)
		}

		pages[key][entry.ID] = entry
	}

	return pages
}

func highestIDs(pages map[file.PageKey]map[int64]WriteBufferEntry) map[string]int64 {
	highest := make(map[string]int64)

	for key, records := range pages {
		for id := range records {
			if current, ok := highest[key.Table]; !ok || id > current {
				highest[key.Table] = id
			}
		}
	}

	return highest
}

// Concatenate the records of a page in id order, starting a new run wherever
// the ids are not contiguous.
func (e *Engine) pageRuns(records map[int64]WriteBufferEntry) []pageRun {
	ids := make([]int64, 0, len(records))

	for id := range records {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	var runs []pageRun

	previous := int64(-2)

	for _, id := range ids {
		entry := records[id]

		if id != previous+1 || len(runs) == 0 {
			_, slot := file.Locate(id, e.config.PageSize)

			runs = append(runs, pageRun{
				offset: file.SlotOffset(slot, int64(len(entry.Data))),
			})
		}

		run := &runs[len(runs)-1]
		run.data = append(run.data, entry.Data...)
		previous = id
	}

	return runs
}

func (e *Engine) tableMapping() map[string]*catalog.Table {
	tables := e.catalog.Tables()
	mapping := make(map[string]*catalog.Table, len(tables))

	for _, table := range tables {
		mapping[table.Name] = table
	}

	return mapping
}
