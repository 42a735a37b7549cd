package format

import "fmt"

var byteUnits = [...]string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count with base-1024 units and two decimals,
// e.g. 1048576 is "1.00 MB". Zero is rendered as exactly "0 B". Values of a
// terabyte or more stay in GB.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 B"
	}
	if n < 0 {
		value, unit := ScaleBytes(uint64(-n))
		return fmt.Sprintf("-%.2f %s", value, unit)
	}
	value, unit := ScaleBytes(uint64(n))
	return fmt.Sprintf("%.2f %s", value, unit)
}

// ScaleBytes returns n expressed in its display unit, before rounding.
// The tier is floor(log1024(n)) computed on integers, capped at GB.
func ScaleBytes(n uint64) (float64, string) {
	tier := 0
	for tier < len(byteUnits)-1 && n >= uint64(1)<<(10*(tier+1)) {
		tier++
	}
	return float64(n) / float64(uint64(1)<<(10*tier)), byteUnits[tier]
}

// UnitMultiplier returns the number of bytes in one unit, or 0 for an unknown unit.
func UnitMultiplier(unit string) uint64 {
	for i, u := range byteUnits {
		if u == unit {
			return uint64(1) << (10 * i)
		}
	}
	return 0
}
