package commands

import (
	"testing"
	"time"
)

func TestServePruneInterval(t *testing.T) {
	testCases := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{time.Nanosecond, time.Second},
		{time.Second, time.Second},
		{30 * time.Minute, 15 * time.Minute},
		{0, 15 * time.Minute},
	}

	for _, tc := range testCases {
		cmd := NewServeCommand(ServeConfig{SessionTTL: tc.ttl})
		if got := cmd.pruneInterval(); got != tc.want {
			t.Errorf("Expected interval %v for ttl %v, got %v", tc.want, tc.ttl, got)
		}
	}
}
