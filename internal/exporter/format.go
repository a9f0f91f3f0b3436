package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat formats a metric value with four decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// formatValue renders an offending value for a report cell
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return formatBool(val)
	case int:
		return formatInt(val)
	default:
		return fmt.Sprint(val)
	}
}
