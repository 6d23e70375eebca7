package engine

import (
	"cmp"
	"strings"
	"sync"
)

// Comparator reports whether a record value satisfies a query against the
// test value.
type Comparator func(value, test any) bool

var (
	comparators = map[string]Comparator{
		"EQ": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return ok && result == 0
		},
		"NE": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return !ok || result != 0
		},
		"LT": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return ok && result < 0
		},
		"LE": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return ok && result <= 0
		},
		"GT": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return ok && result > 0
		},
		"GE": func(value, test any) bool {
			result, ok := compareValues(value, test)
			return ok && result >= 0
		},
	}
	comparatorsMutex sync.RWMutex
)

// RegisterComparator makes a comparator available to scans under the symbol,
// replacing any comparator already registered with it.
func RegisterComparator(symbol string, comparator Comparator) {
	comparatorsMutex.Lock()
	defer comparatorsMutex.Unlock()

	comparators[symbol] = comparator
}

func LookupComparator(symbol string) (Comparator, bool) {
	comparatorsMutex.RLock()
	defer comparatorsMutex.RUnlock()

	comparator, ok := comparators[symbol]

	return comparator, ok
}

// Compare two values of the same kind. Numbers compare by value whatever
// their Go type and strings compare lexically. The second result is false
// when the values cannot be compared.
func compareValues(value, test any) (int, bool) {
	if a, ok := toInt64(value); ok {
		if b, ok := toInt64(test); ok {
			return cmp.Compare(a, b), true
		}
	}

	if a, ok := toFloat64(value); ok {
		if b, ok := toFloat64(test); ok {
			return cmp.Compare(a, b), true
		}

		return 0, false
	}

	if a, ok := value.(string); ok {
		if b, ok := test.(string); ok {
			return strings.Compare(a, b), true
		}
	}

	return 0, false
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case float32:
		if v == float32(int64(v)) {
			return int64(v), true
		}
	}

	return 0, false
}

func toFloat64(value any) (float64, bool) {
	if v, ok := toInt64(value); ok {
		return float64(v), true
	}

	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	}

	return 0, false
}
