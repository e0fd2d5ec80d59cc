package input

import (
	"testing"
	"time"

	"github.com/decker502/waterfx/pkg/wave"
)

func newBoundedTracker() *Tracker {
	tr := NewTracker(0)
	tr.SetBounds(100, 50)
	return tr
}

func TestNewTracker_DefaultHold(t *testing.T) {
	if got := NewTracker(0).Hold(); got != DefaultHold {
		t.Errorf("hold: got %v, want %v", got, DefaultHold)
	}
	if got := NewTracker(time.Second).Hold(); got != time.Second {
		t.Errorf("hold: got %v, want 1s", got)
	}
}

func TestTracker_Debounce(t *testing.T) {
	tr := newBoundedTracker()
	start := time.Unix(1000, 0)

	// 第一次采样只是基准
	if tr.Observe(10, 10, start) {
		t.Error("first sample should not count as motion")
	}
	if tr.State(start).Activating {
		t.Error("should not be activating before any motion")
	}

	if !tr.Observe(20, 15, start) {
		t.Fatal("position change should count as motion")
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"same instant", 0, true},
		{"within hold", 10 * time.Millisecond, true},
		{"at hold", DefaultHold, false},
		{"after hold", 50 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tr.State(start.Add(tt.elapsed))
			if in.Activating != tt.want {
				t.Errorf("activating: got %v, want %v", in.Activating, tt.want)
			}
			if in.Position != (wave.Point{X: 20, Y: 15}) {
				t.Errorf("position: got %+v", in.Position)
			}
		})
	}
}

func TestTracker_StillPointer(t *testing.T) {
	tr := newBoundedTracker()
	now := time.Unix(0, 0)

	tr.Observe(10, 10, now)
	tr.Observe(30, 30, now)

	now = now.Add(time.Second)
	if tr.Observe(30, 30, now) {
		t.Error("unchanged position should not count as motion")
	}
	if tr.State(now).Activating {
		t.Error("still pointer should not be activating")
	}
}

func TestTracker_Bounds(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 25, true},
		{"left edge", 0, 25, false},
		{"top edge", 50, 0, false},
		{"right edge", 100, 25, false},
		{"bottom edge", 50, 50, false},
		{"outside", -5, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newBoundedTracker()
			now := time.Unix(0, 0)
			tr.Observe(1, 1, now)

			if got := tr.Observe(tt.x, tt.y, now); got != tt.want {
				t.Errorf("Observe(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
			if got := tr.State(now).Activating; got != tt.want {
				t.Errorf("activating: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := newBoundedTracker()
	now := time.Unix(0, 0)
	tr.Observe(10, 10, now)
	tr.Observe(20, 20, now)

	tr.Reset()
	tr.Reset()

	in := tr.State(now)
	if in.Activating {
		t.Error("should not be activating after Reset")
	}
	if in.Position != (wave.Point{}) {
		t.Errorf("position should be cleared, got %+v", in.Position)
	}
	if tr.Observe(30, 30, now) {
		t.Error("first sample after Reset should be a baseline")
	}
}
