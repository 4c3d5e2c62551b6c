package models

import "time"

// GamePlayer is embedded in a game's confirmed or waiting list, it is not
// a collection of its own. A user id appears at most once across the two
// lists of a game.
type GamePlayer struct {
	UserID           string    `bson:"user_id" json:"user_id"`
	UserName         string    `bson:"user_name" json:"user_name"`
	UserEmail        string    `bson:"user_email" json:"user_email"`
	JoinedAt         time.Time `bson:"joined_at" json:"joined_at"`
	HasPaid          bool      `bson:"has_paid" json:"has_paid"`
	WillBringBall    bool      `bson:"will_bring_ball" json:"will_bring_ball"`
	WillBringSpeaker bool      `bson:"will_bring_speaker" json:"will_bring_speaker"`
}
