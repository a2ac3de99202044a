package shared

import (
	"fmt"
	"strings"
)

const ZeroDuration = "00:00:00"

// TimeToSeconds converts an HH:MM:SS string to seconds. Missing fields count
// as zero and each field is read as its leading digit run, so malformed input
// degrades to a smaller value instead of failing.
func TimeToSeconds(value string) int {
	parts := strings.Split(value, ":")

	field := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		return leadingInt(parts[i])
	}

	return field(0)*3600 + field(1)*60 + field(2)
}

// SecondsToTime formats seconds as HH:MM:SS. Hours are not wrapped at 24.
func SecondsToTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	remaining := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, remaining)
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
