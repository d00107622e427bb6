package level

import (
	"errors"
	"testing"
	"time"
)

func TestIsFinal(t *testing.T) {
	for lvl := 1; lvl < TotalLevels; lvl++ {
		if IsFinal(lvl) {
			t.Errorf("IsFinal(%d) = true, want false", lvl)
		}
	}
	if !IsFinal(TotalLevels) {
		t.Errorf("IsFinal(%d) = false, want true", TotalLevels)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 2},
		{4, 5},
		{5, 0},
		{9, 0},
	}
	for _, tt := range tests {
		if got := Next(tt.in); got != tt.want {
			t.Errorf("Next(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyFor(t *testing.T) {
	prev := 1e9
	for lvl := 1; lvl <= TotalLevels; lvl++ {
		d, err := DifficultyFor(lvl)
		if err != nil {
			t.Fatalf("DifficultyFor(%d) error = %v", lvl, err)
		}
		if d.Level != lvl {
			t.Errorf("DifficultyFor(%d).Level = %d", lvl, d.Level)
		}
		if d.DetectionRadius >= prev {
			t.Errorf("DifficultyFor(%d).DetectionRadius = %v, want < %v", lvl, d.DetectionRadius, prev)
		}
		prev = d.DetectionRadius
		if d.FeedbackDelay != FeedbackDelay(lvl) {
			t.Errorf("DifficultyFor(%d).FeedbackDelay = %v, want %v", lvl, d.FeedbackDelay, FeedbackDelay(lvl))
		}
	}

	if _, err := DifficultyFor(6); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("DifficultyFor(6) error = %v, want ErrUnknownLevel", err)
	}
}

func TestFeedbackDelay(t *testing.T) {
	if got := FeedbackDelay(1); got != 0 {
		t.Errorf("FeedbackDelay(1) = %v, want 0", got)
	}
	if got := FeedbackDelay(3); got != 100*time.Millisecond {
		t.Errorf("FeedbackDelay(3) = %v, want 100ms", got)
	}
}

func TestCanConfirm(t *testing.T) {
	d, _ := DifficultyFor(1)
	if !d.CanConfirm(500) {
		t.Errorf("CanConfirm(500) with no confirm radius = false, want true")
	}
	d.ConfirmRadius = 40
	if d.CanConfirm(41) || !d.CanConfirm(40) {
		t.Errorf("CanConfirm with radius 40: 41 -> %v, 40 -> %v", d.CanConfirm(41), d.CanConfirm(40))
	}
}
