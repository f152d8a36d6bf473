package view

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 0, want: "now"},
		{ago: 59 * time.Second, want: "now"},
		{ago: -time.Hour, want: "now"},
		{ago: time.Minute, want: "1m ago"},
		{ago: 59*time.Minute + 59*time.Second, want: "59m ago"},
		{ago: time.Hour, want: "1h ago"},
		{ago: 23 * time.Hour, want: "23h ago"},
		{ago: 24 * time.Hour, want: "1d ago"},
		{ago: 10 * 24 * time.Hour, want: "10d ago"},
	}

	for _, tt := range tests {
		if got := TimeAgo(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("TimeAgo(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
