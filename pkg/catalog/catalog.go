package catalog

import (
	"slices"
	"strings"
	"sync"
)

// Catalog is the authoritative in-memory mapping of table name to table
// definition. Tables handed out by the catalog are copies.
type Catalog struct {
	mutex    sync.RWMutex
	recorded bool
	tables   map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]*Table),
	}
}

// Advance the index of a table so that it covers the given index. The index
// never moves backwards.
func (c *Catalog) Advance(name string, index int64) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	table, ok := c.tables[name]

	if !ok {
		return false
	}

	if index > table.Index {
		table.Index = index
	}

	return true
}

// Return a copy of the named table.
func (c *Catalog) Get(name string) (*Table, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	table, ok := c.tables[name]

	if !ok {
		return nil, false
	}

	return table.Clone(), true
}

// Replace the catalog contents with tables loaded from durable storage. The
// catalog only counts as recorded when something was loaded.
func (c *Catalog) Load(tables []*Table) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.tables = make(map[string]*Table, len(tables))

	for _, table := range tables {
		c.tables[table.Name] = table.Clone()
	}

	c.recorded = len(tables) > 0
}

// Add or replace a single table definition.
func (c *Catalog) Put(table *Table) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.tables[table.Name] = table.Clone()
	c.recorded = true
}

// Record the table mapping supplied by the caller. Index counters already
// advanced by this node are kept when the supplied mapping lags behind.
func (c *Catalog) Record(tables map[string]*Table) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for name, table := range tables {
		if table == nil {
			continue
		}

		next := table.Clone()
		next.Name = name

		if current, ok := c.tables[name]; ok && current.Index > next.Index {
			next.Index = current.Index
		}

		c.tables[name] = next
	}

	c.recorded = true
}

// Whether a table mapping has been recorded yet.
func (c *Catalog) Recorded() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.recorded
}

// Return copies of every table ordered by name.
func (c *Catalog) Tables() []*Table {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	tables := make([]*Table, 0, len(c.tables))

	for _, table := range c.tables {
		tables = append(tables, table.Clone())
	}

	slices.SortFunc(tables, func(a, b *Table) int {
		return strings.Compare(a.Name, b.Name)
	})

	return tables
}
