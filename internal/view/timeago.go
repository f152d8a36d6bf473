package view

import (
	"fmt"
	"time"
)

// TimeAgo renders ts relative to now the way the comment list shows it.
func TimeAgo(ts, now time.Time) string {
	mins := int(now.Sub(ts) / time.Minute)
	if mins < 1 {
		return "now"
	}
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}
