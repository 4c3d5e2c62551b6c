package roster

import (
	"github.com/shopspring/decimal"

	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

// Summary is the read-side projection of a game. All of it is recomputed
// per read; none of these values are ever stored on the document.
type Summary struct {
	ConfirmedCount  int    `json:"confirmed_count"`
	WaitingCount    int    `json:"waiting_count"`
	OpenSpots       int    `json:"open_spots"`
	PaidCount       int    `json:"paid_count"`
	TotalCollected  string `json:"total_collected"`
	BallBringers    int    `json:"ball_bringers"`
	SpeakerBringers int    `json:"speaker_bringers"`
	BallNeeded      bool   `json:"ball_needed"`
	SpeakerNeeded   bool   `json:"speaker_needed"`
}

func Summarize(g *models.Game) Summary {
	s := Summary{
		ConfirmedCount: len(g.Players),
		WaitingCount:   len(g.WaitingList),
	}
	if open := g.MaxPlayers - len(g.Players); open > 0 {
		s.OpenSpots = open
	}
	for _, p := range g.Players {
		if p.HasPaid {
			s.PaidCount++
		}
		if p.WillBringBall {
			s.BallBringers++
		}
		if p.WillBringSpeaker {
			s.SpeakerBringers++
		}
	}
	s.TotalCollected = TotalCollected(g).StringFixed(2)
	// Equipment coverage counts confirmed players only; a ball on the
	// waiting list is not at the game.
	s.BallNeeded = g.NeedsBall && s.BallBringers == 0
	s.SpeakerNeeded = g.NeedsSpeaker && s.SpeakerBringers == 0
	return s
}

// TotalCollected is price times the number of confirmed players who paid.
func TotalCollected(g *models.Game) decimal.Decimal {
	paid := 0
	for _, p := range g.Players {
		if p.HasPaid {
			paid++
		}
	}
	return decimal.NewFromFloat(g.Price).Mul(decimal.NewFromInt(int64(paid)))
}
