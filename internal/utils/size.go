package utils

import (
	"fmt"
	"strings"
)

const kibibyte = 1024

var sizeUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return "0b"
	}
	value := float64(byteCount)
	unitIndex := 0
	for value >= kibibyte && unitIndex < len(sizeUnits)-1 {
		value /= kibibyte
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", byteCount)
	}
	if value < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + sizeUnits[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, sizeUnits[unitIndex])
}

// KilobytesToBytes converts a configured kilobyte limit into bytes. Values
// at or below zero mean no limit and yield zero.
func KilobytesToBytes(kilobytes int64) int64 {
	if kilobytes <= 0 {
		return 0
	}
	return kilobytes * kibibyte
}
