package services

import (
	"sort"
	"testing"
	"time"

	"agorahall/models"
)

func activity(debates, votes int64, age time.Duration) PositionActivity {
	return PositionActivity{
		Position:    models.Position{CreatedAt: time.Now().Add(-age)},
		DebateCount: debates,
		VoteVolume:  votes,
	}
}

func TestMoreActiveOrdering(t *testing.T) {
	busy := activity(3, 1, time.Hour)
	quiet := activity(1, 50, time.Hour)
	if !MoreActive(busy, quiet) {
		t.Error("expected debate count to dominate vote volume")
	}

	voted := activity(2, 10, time.Hour)
	unvoted := activity(2, 0, time.Hour)
	if !MoreActive(voted, unvoted) {
		t.Error("expected vote volume to break debate-count ties")
	}

	fresh := activity(2, 5, time.Minute)
	stale := activity(2, 5, 48*time.Hour)
	if !MoreActive(fresh, stale) {
		t.Error("expected recency to break full ties")
	}
}

func TestMoreActiveSortsDescending(t *testing.T) {
	entries := []PositionActivity{
		activity(0, 0, time.Hour),
		activity(5, 2, time.Hour),
		activity(2, 9, time.Hour),
		activity(2, 1, time.Hour),
	}
	sort.SliceStable(entries, func(i, j int) bool { return MoreActive(entries[i], entries[j]) })

	wantDebates := []int64{5, 2, 2, 0}
	for i, want := range wantDebates {
		if entries[i].DebateCount != want {
			t.Fatalf("entry %d: got %d debates, want %d", i, entries[i].DebateCount, want)
		}
	}
	if entries[1].VoteVolume != 9 {
		t.Errorf("expected the higher vote volume first among tied entries, got %d", entries[1].VoteVolume)
	}
}
