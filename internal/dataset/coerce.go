package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueToString renders a scalar the way operators expect identifiers to
// read: whole-valued numbers drop the decimal point ("123", never "123.0").
// Nil values report ok=false.
func ValueToString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		if !math.IsInf(t, 0) && !math.IsNaN(t) && t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10), true
		}

		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// ToFloat coerces a scalar to float64. Unparseable or missing values report
// ok=false so callers can treat them as absent rather than fail.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}
