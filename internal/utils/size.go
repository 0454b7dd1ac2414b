package utils

import (
	"strconv"
	"strings"
)

const byteUnitStep = 1024

var byteSizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case binary unit, keeping
// one decimal below ten units. Negative counts render as zero bytes.
func FormatFileSize(byteCount int64) string {
	if byteCount < byteUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + byteSizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= byteUnitStep && unitIndex < len(byteSizeUnits)-1 {
		scaled /= byteUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	return strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0") + byteSizeUnits[unitIndex]
}
