package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatCell renders a report cell. nil and NaN become the empty string.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return formatInt(x)
	case float64:
		return formatFloat(x)
	case *float64:
		if x == nil {
			return ""
		}
		return formatFloat(*x)
	default:
		return fmt.Sprint(x)
	}
}

// cellValue unwraps optional values for typed sinks such as spreadsheets
func cellValue(v any) any {
	switch x := v.(type) {
	case *float64:
		if x == nil || math.IsNaN(*x) {
			return nil
		}
		return *x
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	default:
		return v
	}
}
