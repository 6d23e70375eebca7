package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/codec"
	"github.com/diamonddb/diamond-node/pkg/file"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Query selects the records whose value under Key satisfies the comparator
// registered under Comparator when tested against Value.
type Query struct {
	Key        string `json:"key" validate:"required"`
	Comparator string `json:"comparator" validate:"required"`
	Value      any    `json:"value"`
}

type FilterResult struct {
	Results []catalog.Record `json:"results"`
}

// Filter scans every persisted page of the table and returns the matching
// records ordered by id. Pages are read concurrently and a page that cannot
// be read within the retry budget fails the whole scan.
func (e *Engine) Filter(ctx context.Context, tableName string, query Query) (*FilterResult, error) {
	table, ok := e.catalog.Get(tableName)

	if !ok {
		return nil, catalog.NewFieldValidationError("table", fmt.Sprintf("The table %s does not exist", tableName))
	}

	if _, ok := table.Field(query.Key); !ok && query.Key != catalog.IDKey {
		return nil, catalog.NewFieldValidationError("query.key", fmt.Sprintf("The table %s has no field %s", table.Name, query.Key))
	}

	comparator, ok := LookupComparator(query.Comparator)

	if !ok {
		return nil, catalog.NewFieldValidationError("query.comparator", fmt.Sprintf("The comparator %s is not supported", query.Comparator))
	}

	start := time.Now()
	scanID := uuid.NewString()
	pageCount := file.PageCount(table.Index, e.config.PageSize)
	pages := make([][]catalog.Record, pageCount)

	group, groupCtx := errgroup.WithContext(ctx)

	if e.config.ScanConcurrency > 0 {
		group.SetLimit(e.config.ScanConcurrency)
	}

	for pageIndex := int64(0); pageIndex < pageCount; pageIndex++ {
		group.Go(func() error {
			records, err := e.scanPage(groupCtx, scanID, table, pageIndex, query, comparator)

			if err != nil {
				return err
			}

			pages[pageIndex] = records

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Error scanning table", "scan", scanID, "table", table.Name, "error", err)

		return nil, err
	}

	results := make([]catalog.Record, 0)

	for _, records := range pages {
		results = append(results, records...)
	}

	slices.SortFunc(results, func(a, b catalog.Record) int {
		idA, _ := a.ID()
		idB, _ := b.ID()

		return cmp.Compare(idA, idB)
	})

	slog.Debug("Scanned table", "scan", scanID, "table", table.Name, "pages", pageCount, "matches", len(results), "duration", time.Since(start))

	return &FilterResult{Results: results}, nil
}

// Read a page, retrying up to the configured number of times, and return its
// matching records. A page that does not exist holds no records.
func (e *Engine) scanPage(
	ctx context.Context,
	scanID string,
	table *catalog.Table,
	pageIndex int64,
	query Query,
	comparator Comparator,
) ([]catalog.Record, error) {
	path := file.PageKey{Table: table.Name, Index: pageIndex}.FileName()
	attempts := 0

	var lastErr error

	for attempts < max(e.config.ScanRetries, 0)+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempts++

		data, err := e.fileSystem.ReadFile(path)

		if err == nil {
			records, err := e.matchPage(table, pageIndex, data, query, comparator)

			// Decode failures are not retried.
			if err != nil {
				return nil, &PageReadError{Table: table.Name, PageIndex: pageIndex, Attempts: attempts, Err: err}
			}

			return records, nil
		}

		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Page missing, scanning it as empty", "scan", scanID, "file", path, "index", table.Index)

			return nil, nil
		}

		lastErr = err

		slog.Warn("Error reading page", "scan", scanID, "file", path, "attempt", attempts, "error", err)
	}

	return nil, &PageReadError{
		Table:     table.Name,
		PageIndex: pageIndex,
		Attempts:  attempts,
		Err:       lastErr,
	}
}

func (e *Engine) matchPage(
	table *catalog.Table,
	pageIndex int64,
	data []byte,
	query Query,
	comparator Comparator,
) ([]catalog.Record, error) {
	var matches []catalog.Record

	slots := min(int64(len(data))/table.Size, e.config.PageSize)

	for slot := int64(0); slot < slots; slot++ {
		offset := file.SlotOffset(slot, table.Size)

		record, err := e.recordCodec.Decode(data[offset:offset+table.Size], table.Schema)

		if errors.Is(err, codec.ErrEmptySlot) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("could not decode slot %d of page %d: %w", slot, pageIndex, err)
		}

		record = record.WithID(file.GlobalID(pageIndex, slot, e.config.PageSize))

		if comparator(record[query.Key], query.Value) {
			matches = append(matches, record)
		}
	}

	return matches, nil
}
