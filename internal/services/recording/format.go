package recording

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const bytesPerMegabyte = 1048576

// FormatElapsed renders d as MM:SS, or HH:MM:SS from one hour
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatClock renders d as HH:MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// FormatSize renders a byte count in megabytes rounded to two decimals
func FormatSize(bytes int64) string {
	mb := float64(bytes) / bytesPerMegabyte
	return strconv.FormatFloat(math.Round(mb*100)/100, 'f', -1, 64)
}
