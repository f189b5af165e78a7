package watcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opspulse/pool-watcher/internal/watcher"
)

func observeAll(d *watcher.FailoverDetector, pools []string) []watcher.FailoverEvent {
	var events []watcher.FailoverEvent
	for _, p := range pools {
		if ev, fired := d.Observe(p); fired {
			events = append(events, ev)
		}
	}
	return events
}

func TestFailoverDetector_Sequences(t *testing.T) {
	tests := []struct {
		name  string
		pools []string
		want  []watcher.FailoverEvent
	}{
		{
			name:  "only unknown never fires",
			pools: []string{"unknown", "unknown"},
			want:  nil,
		},
		{
			name:  "first observation never fires",
			pools: []string{"blue"},
			want:  nil,
		},
		{
			name:  "pool change fires once",
			pools: []string{"blue", "green"},
			want:  []watcher.FailoverEvent{{From: "blue", To: "green"}},
		},
		{
			name:  "unknown does not reset or mask",
			pools: []string{"blue", "unknown", "green"},
			want:  []watcher.FailoverEvent{{From: "blue", To: "green"}},
		},
		{
			name:  "stable pool never fires",
			pools: []string{"blue", "blue"},
			want:  nil,
		},
		{
			name:  "failover and failback fire twice",
			pools: []string{"blue", "green", "green", "blue"},
			want: []watcher.FailoverEvent{
				{From: "blue", To: "green"},
				{From: "green", To: "blue"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := watcher.NewFailoverDetector()
			assert.Equal(t, tt.want, observeAll(d, tt.pools))
		})
	}
}

func TestFailoverDetector_UnknownNotRemembered(t *testing.T) {
	d := watcher.NewFailoverDetector()

	d.Observe("blue")
	d.Observe("unknown")
	assert.Equal(t, "blue", d.LastPool())
}

func TestFailoverDetector_UnknownFirstThenPool(t *testing.T) {
	d := watcher.NewFailoverDetector()

	_, fired := d.Observe("unknown")
	assert.False(t, fired)

	// The first real pool is a first observation, not a failover.
	_, fired = d.Observe("green")
	assert.False(t, fired)
	assert.Equal(t, "green", d.LastPool())
}
