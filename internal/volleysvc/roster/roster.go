package roster

import (
	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

// Roster transitions for a single game snapshot. These mutate the snapshot
// in place and carry no storage concerns; the service layer re-reads and
// replays them when a conditional write loses a race.

// Register puts the player on the confirmed list while there is room,
// otherwise on the waiting list. A full game is not an error.
func Register(g *models.Game, p models.GamePlayer) error {
	if Find(g, p.UserID) != nil {
		return apperr.Validationf("user_id", "user %s is already registered for this game", p.UserID)
	}
	if len(g.Players) < g.MaxPlayers {
		g.Players = append(g.Players, p)
	} else {
		g.WaitingList = append(g.WaitingList, p)
	}
	return nil
}

// Unregister removes the user from whichever list holds them. Vacating a
// confirmed seat promotes the waiting list head, exactly one promotion per
// call. Leaving the waiting list promotes nobody.
func Unregister(g *models.Game, userID string) error {
	for i, p := range g.Players {
		if p.UserID != userID {
			continue
		}
		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		if len(g.WaitingList) > 0 {
			promoted := g.WaitingList[0]
			g.WaitingList = g.WaitingList[1:]
			g.Players = append(g.Players, promoted)
		}
		return nil
	}
	for i, p := range g.WaitingList {
		if p.UserID == userID {
			g.WaitingList = append(g.WaitingList[:i], g.WaitingList[i+1:]...)
			return nil
		}
	}
	return apperr.NotFoundf("user %s is not on game %s", userID, g.ID.Hex())
}

// SetPaymentStatus flips the payment flag of the matched player, confirmed
// list checked first. List membership never changes here.
func SetPaymentStatus(g *models.Game, userID string, hasPaid bool) error {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			g.Players[i].HasPaid = hasPaid
			return nil
		}
	}
	for i := range g.WaitingList {
		if g.WaitingList[i].UserID == userID {
			g.WaitingList[i].HasPaid = hasPaid
			return nil
		}
	}
	return apperr.NotFoundf("user %s is not on game %s", userID, g.ID.Hex())
}

// Find returns the player record for userID from either list, nil when absent.
func Find(g *models.Game, userID string) *models.GamePlayer {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	for i := range g.WaitingList {
		if g.WaitingList[i].UserID == userID {
			return &g.WaitingList[i]
		}
	}
	return nil
}
