package wireclock

import (
	"testing"
	"time"
)

func TestBCD6(t *testing.T) {
	tm := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	got := BCD6(tm)
	want := [6]byte{0x24, 0x01, 0x02, 0x03, 0x04, 0x05}
	if got != want {
		t.Errorf("BCD6(%v) = % X, want % X", tm, got, want)
	}
}

func TestBCD6YearWraps(t *testing.T) {
	tm := time.Date(2099, time.December, 31, 23, 59, 59, 0, time.UTC)
	got := BCD6(tm)
	want := [6]byte{0x99, 0x12, 0x31, 0x23, 0x59, 0x59}
	if got != want {
		t.Errorf("BCD6(%v) = % X, want % X", tm, got, want)
	}
}

func TestSerialClockAdvances(t *testing.T) {
	base := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	i := 0
	steps := []time.Time{base, base.Add(time.Second), base.Add(2 * time.Second)}

	c := NewSerialClockWithNow(func() time.Time {
		tm := steps[i]
		i++
		return tm
	})

	first := c.Next()
	second := c.Next()
	if first == second {
		t.Errorf("expected serial to advance, got %X twice", first)
	}
}

func TestNonce4Length(t *testing.T) {
	n := Nonce4()
	if len(n) != 4 {
		t.Errorf("Nonce4 length = %d, want 4", len(n))
	}
}
