package util

import (
	"fmt"
	"time"
)

// TimestampLayout is used for transcript lines and file names.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	FileStampLayout = "20060102_150405"
)

// FormatClock renders d as MM:SS, truncating sub-second precision.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
