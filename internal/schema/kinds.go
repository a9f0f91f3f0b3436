package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind names used in violation messages
const (
	kindInt    = "int"
	kindFloat  = "float"
	kindBool   = "bool"
	kindString = "string"
	kindList   = "list"
	kindObject = "object"
	kindNull   = "null"
)

// kindOf classifies a decoded value. json.Number is an int when its literal
// has no fraction or exponent, so 1.0 is a float just as it was written.
func kindOf(v any) string {
	switch x := v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt
	case float32, float64:
		return kindFloat
	case json.Number:
		if strings.ContainsAny(string(x), ".eE") {
			return kindFloat
		}
		return kindInt
	case string:
		return kindString
	case []any, []string:
		return kindList
	case map[string]any:
		return kindObject
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isNumericKind(k string) bool {
	return k == kindInt || k == kindFloat
}

// toFloat converts a numeric value to float64
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// formatValue renders a value the way it reads in a data file
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return string(x)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
