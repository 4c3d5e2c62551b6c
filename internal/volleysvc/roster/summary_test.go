package roster

import (
	"testing"
	"time"
)

func TestSummarizeDerivedCounts(t *testing.T) {
	a := player("a", 0)
	a.HasPaid = true
	a.WillBringBall = true
	b := player("b", time.Minute)
	b.HasPaid = true
	c := player("c", 2*time.Minute)

	g := newGame(4, a, b, c)
	g.Price = 7.5
	g.NeedsBall = true
	g.NeedsSpeaker = true

	s := Summarize(g)

	if s.ConfirmedCount != 3 || s.WaitingCount != 0 || s.OpenSpots != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.PaidCount != 2 {
		t.Fatalf("paid = %d, want 2", s.PaidCount)
	}
	if s.TotalCollected != "15.00" {
		t.Fatalf("collected = %s, want 15.00", s.TotalCollected)
	}
	if s.BallBringers != 1 || s.BallNeeded {
		t.Fatalf("ball coverage = %+v", s)
	}
	if s.SpeakerBringers != 0 || !s.SpeakerNeeded {
		t.Fatalf("speaker coverage = %+v", s)
	}
}

func TestSummarizeWaitingEquipmentDoesNotCount(t *testing.T) {
	// a speaker on the waiting list is not at the game
	g := newGame(1, player("a", 0))
	w := player("b", time.Minute)
	w.WillBringSpeaker = true
	g.WaitingList = append(g.WaitingList, w)
	g.NeedsSpeaker = true

	s := Summarize(g)
	if s.SpeakerBringers != 0 || !s.SpeakerNeeded {
		t.Fatalf("speaker coverage should ignore waiting list: %+v", s)
	}
}

func TestSummarizeFullGameHasNoOpenSpots(t *testing.T) {
	g := newGame(2, player("a", 0), player("b", time.Minute))
	if s := Summarize(g); s.OpenSpots != 0 {
		t.Fatalf("open spots = %d, want 0", s.OpenSpots)
	}
}
