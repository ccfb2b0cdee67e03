package validator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/utils"
)

// Date/time layouts accepted for catalog.ColDate / catalog.ColDateTime,
// matching the formats the original implementation's validation.py parses
// with pandas.to_datetime for date-only vs. full-timestamp columns.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// coerceScalar converts a raw value (already unwrapped from its driver
// representation) to the Go type a column of the given catalog.ColType
// should hold, or returns an error describing why it can't. This is
// deliberately NOT the teacher's ToInt64/ToFloat64 helpers (not carried
// into package utils) — those are best-effort and
// silently default to the zero value on bad input, which is right for
// normalizing driver output but wrong here: an unparsable value must
// surface as a TransformError (spec.md "Validator"), not get silently
// zeroed.
func coerceScalar(v any, typ catalog.ColType) (any, error) {
	v = utils.ToInterface(v) // unwrap []byte, as a driver-read string would arrive

	switch typ {
	case catalog.ColString:
		return utils.ToString(v), nil

	case catalog.ColInt:
		switch val := v.(type) {
		case int64:
			return val, nil
		case int:
			return int64(val), nil
		case float64:
			if val != float64(int64(val)) {
				return nil, fmt.Errorf("value %v is not a valid int", v)
			}
			return int64(val), nil
		case string:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a valid int", val)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("value %v (%T) is not a valid int", v, v)
		}

	case catalog.ColFloat:
		switch val := v.(type) {
		case float64:
			return val, nil
		case int64:
			return float64(val), nil
		case int:
			return float64(val), nil
		case string:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a valid float", val)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("value %v (%T) is not a valid float", v, v)
		}

	case catalog.ColDate:
		return parseTimeStrict(v, dateLayout, "date")

	case catalog.ColDateTime:
		if t, err := parseTimeStrict(v, dateTimeLayout, "datetime"); err == nil {
			return t, nil
		}
		return parseTimeStrict(v, dateLayout, "datetime")

	case catalog.ColUUID:
		switch val := v.(type) {
		case uuid.UUID:
			return val, nil
		case string:
			id, err := uuid.Parse(val)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a valid uuid", val)
			}
			return id, nil
		default:
			return nil, fmt.Errorf("value %v (%T) is not a valid uuid", v, v)
		}

	default:
		return nil, fmt.Errorf("unknown column type %q", typ)
	}
}

func parseTimeStrict(v any, layout, kind string) (any, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		t, err := time.Parse(layout, val)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid %s", val, kind)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("value %v (%T) is not a valid %s", v, v, kind)
	}
}
