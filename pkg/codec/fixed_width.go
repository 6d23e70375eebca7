package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/diamonddb/diamond-node/pkg/catalog"
)

// FixedWidthCodec lays out every field of a record at a fixed position.
// Strings are left aligned and padded with spaces, numbers are right aligned
// decimals padded with spaces. A slot of zero bytes is an unwritten slot.
type FixedWidthCodec struct{}

func NewFixedWidthCodec() *FixedWidthCodec {
	return &FixedWidthCodec{}
}

func (c *FixedWidthCodec) Decode(data []byte, schema []catalog.Field) (catalog.Record, error) {
	var size int64

	for _, field := range schema {
		size += field.Width
	}

	if int64(len(data)) != size {
		return nil, fmt.Errorf("expected %d bytes for the record but got %d", size, len(data))
	}

	if isEmptySlot(data) {
		return nil, ErrEmptySlot
	}

	record := make(catalog.Record, len(schema))

	var position int64

	for _, field := range schema {
		raw := string(data[position : position+field.Width])
		position += field.Width

		switch field.Type {
		case catalog.FieldTypeString:
			record[field.Name] = strings.TrimRight(raw, " \x00")
		case catalog.FieldTypeNumber:
			raw = strings.Trim(raw, " \x00")

			if raw == "" {
				continue
			}

			value, err := parseNumber(raw)

			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}

			record[field.Name] = value
		default:
			return nil, fmt.Errorf("field %s has unknown type %s", field.Name, field.Type)
		}
	}

	return record, nil
}

func (c *FixedWidthCodec) Encode(table *catalog.Table, record catalog.Record) ([]byte, error) {
	errs := map[string][]string{}

	for key := range record {
		if key == catalog.IDKey {
			continue
		}

		if _, ok := table.Field(key); !ok {
			errs[key] = append(errs[key], fmt.Sprintf("The field %s is not part of table %s", key, table.Name))
		}
	}

	buffer := bytes.NewBuffer(make([]byte, 0, table.Size))

	for _, field := range table.Schema {
		encoded, err := encodeField(field, record[field.Name])

		if err != nil {
			errs[field.Name] = append(errs[field.Name], err.Error())
			continue
		}

		buffer.WriteString(encoded)
	}

	if len(errs) > 0 {
		return nil, catalog.NewValidationError(errs)
	}

	return buffer.Bytes(), nil
}

func encodeField(field catalog.Field, value any) (string, error) {
	var text string

	switch field.Type {
	case catalog.FieldTypeString:
		if value != nil {
			s, ok := value.(string)

			if !ok {
				return "", fmt.Errorf("The field %s must be a string", field.Name)
			}

			if strings.ContainsRune(s, 0) {
				return "", fmt.Errorf("The field %s cannot contain NUL characters", field.Name)
			}

			text = s
		}

		if int64(len(text)) > field.Width {
			return "", fmt.Errorf("The field %s is longer than %d bytes", field.Name, field.Width)
		}

		return text + strings.Repeat(" ", int(field.Width)-len(text)), nil
	case catalog.FieldTypeNumber:
		if value != nil {
			formatted, err := formatNumber(value)

			if err != nil {
				return "", fmt.Errorf("The field %s must be a number", field.Name)
			}

			text = formatted
		}

		if int64(len(text)) > field.Width {
			return "", fmt.Errorf("The field %s does not fit in %d digits", field.Name, field.Width)
		}

		return strings.Repeat(" ", int(field.Width)-len(text)) + text, nil
	}

	return "", fmt.Errorf("The field %s has unknown type %s", field.Name, field.Type)
}

func formatNumber(value any) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case json.Number:
		return formatNumber(json.Number.String(v))
	case string:
		if _, err := parseNumber(v); err != nil {
			return "", err
		}

		return v, nil
	}

	return "", fmt.Errorf("unsupported number type %T", value)
}

func formatFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%v is not a finite number", v)
	}

	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10), nil
	}

	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func parseNumber(raw string) (any, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(raw, 64)

	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}

	return f, nil
}

func isEmptySlot(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}

	return true
}
