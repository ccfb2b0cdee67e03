package utils

import (
	"fmt"
	"strconv"
)

// ToString converts various types to string
// Handles different database driver representations:
// - string: direct return
// - []byte: byte to string conversion
// - numeric types: formatted conversion
// - bool: "true" or "false"
// - nil: ""
func ToString(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ToInterface converts database-specific types to standard Go types
// Useful for normalizing results from different database drivers
func ToInterface(v any) any {
	if v == nil {
		return nil
	}

	// Handle []byte specially - often used for strings in databases
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}
