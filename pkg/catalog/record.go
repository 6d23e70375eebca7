package catalog

// IDKey is the reserved record key holding the global id of a record read
// back from a page.
const IDKey = "_id"

// Record maps field names to values. String fields hold a string and number
// fields hold an int64 or a float64.
type Record map[string]any

// Return the global id attached to the record, if any.
func (r Record) ID() (int64, bool) {
	id, ok := r[IDKey].(int64)

	return id, ok
}

// Return a copy of the record with the given id attached.
func (r Record) WithID(id int64) Record {
	record := make(Record, len(r)+1)

	for key, value := range r {
		record[key] = value
	}

	record[IDKey] = id

	return record
}
