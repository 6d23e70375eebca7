package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/diamonddb/diamond-node/pkg/catalog"
)

// JSONTableCodec stores each table definition as a single line of JSON.
type JSONTableCodec struct{}

func NewJSONTableCodec() *JSONTableCodec {
	return &JSONTableCodec{}
}

func (c *JSONTableCodec) Parse(data []byte) (map[string]*catalog.Table, error) {
	tables := make(map[string]*catalog.Table)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0

	for scanner.Scan() {
		line++

		text := bytes.TrimSpace(scanner.Bytes())

		if len(text) == 0 {
			continue
		}

		table := &catalog.Table{}

		if err := json.Unmarshal(text, table); err != nil {
			return nil, fmt.Errorf("meta line %d: %w", line, err)
		}

		if table.Name == "" {
			return nil, fmt.Errorf("meta line %d: table definition has no name", line)
		}

		tables[table.Name] = table
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (c *JSONTableCodec) Serialize(table *catalog.Table) ([]byte, error) {
	data, err := json.Marshal(table)

	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}
