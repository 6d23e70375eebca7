package catalog

import (
	"fmt"
	"slices"

	"github.com/diamonddb/diamond-node/internal/validation"
)

type FieldType string

const (
	FieldTypeNumber FieldType = "number"
	FieldTypeString FieldType = "string"
)

// Field is a single fixed-width column of a table schema.
type Field struct {
	Name  string    `json:"name" validate:"required,max=64,ne=_id"`
	Type  FieldType `json:"type" validate:"required,oneof=string number"`
	Width int64     `json:"width" validate:"gt=0,lte=4096"`
}

// Table describes how the records of a table are laid out on pages. Size is
// the encoded width of one record and Index is the next unassigned record id.
type Table struct {
	Name   string  `json:"name" validate:"required,max=128"`
	Schema []Field `json:"schema" validate:"required,min=1,dive"`
	Size   int64   `json:"size"`
	Index  int64   `json:"index"`
}

var tableValidationMessages = map[string]string{
	"name.required":          "The table name is required",
	"name.max":               "The table name must be 128 characters or less",
	"schema.required":        "The table schema is required",
	"schema.min":             "The table schema must contain at least one field",
	"schema.*.name.required": "The field name is required",
	"schema.*.name.max":      "The field name must be 64 characters or less",
	"schema.*.name.ne":       "The field name _id is reserved",
	"schema.*.type.required": "The field type is required",
	"schema.*.type.oneof":    "The field type must be string or number",
	"schema.*.width.gt":      "The field width must be greater than zero",
	"schema.*.width.lte":     "The field width must be 4096 bytes or less",
}

// NewTable creates a table with its record size computed from the schema.
func NewTable(name string, schema ...Field) *Table {
	table := &Table{
		Name:   name,
		Schema: schema,
	}

	table.Size = table.RecordSize()

	return table
}

// Return a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	return &Table{
		Name:   t.Name,
		Schema: slices.Clone(t.Schema),
		Size:   t.Size,
		Index:  t.Index,
	}
}

// Return the field with the given name.
func (t *Table) Field(name string) (Field, bool) {
	for _, field := range t.Schema {
		if field.Name == name {
			return field, true
		}
	}

	return Field{}, false
}

// Calculate the encoded width of one record from the schema.
func (t *Table) RecordSize() int64 {
	var size int64

	for _, field := range t.Schema {
		size += field.Width
	}

	return size
}

// Check that two tables describe the same layout. The index is ignored.
func (t *Table) SameShape(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}

	return t.Name == other.Name && t.Size == other.Size && slices.Equal(t.Schema, other.Schema)
}

// Validate the table definition, returning a *ValidationError when it is
// malformed.
func (t *Table) Validate() error {
	if t == nil {
		return NewValidationError(map[string][]string{
			"table": {"The table definition is required"},
		})
	}

	errs := validation.Validate(t, tableValidationMessages)

	if errs == nil {
		errs = map[string][]string{}
	}

	// Table names become part of page file names.
	for _, char := range t.Name {
		if !(('a' <= char && char <= 'z') || ('A' <= char && char <= 'Z') || ('0' <= char && char <= '9') || char == '_' || char == '-') {
			errs["name"] = append(errs["name"], "The table name can only contain alphanumeric characters, underscores, and hyphens")
			break
		}
	}

	seen := make(map[string]bool, len(t.Schema))

	for i, field := range t.Schema {
		if field.Name != "" && seen[field.Name] {
			key := fmt.Sprintf("schema[%d].name", i)
			errs[key] = append(errs[key], fmt.Sprintf("The field %s is defined more than once", field.Name))
		}

		seen[field.Name] = true
	}

	if t.Size != t.RecordSize() {
		errs["size"] = append(errs["size"], fmt.Sprintf("The record size must be %d", t.RecordSize()))
	}

	if t.Index < 0 {
		errs["index"] = append(errs["index"], "The index cannot be negative")
	}

	if len(errs) > 0 {
		return NewValidationError(errs)
	}

	return nil
}
