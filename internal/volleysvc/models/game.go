package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game lifecycle statuses. Transitions are one-way: upcoming -> cancelled,
// upcoming -> archived, cancelled -> archived.
const (
	StatusUpcoming  = "upcoming"
	StatusCancelled = "cancelled"
	StatusArchived  = "archived"
)

type Location struct {
	Name    string   `bson:"name" json:"name"`
	Address string   `bson:"address" json:"address"`
	MapsURL string   `bson:"maps_url" json:"maps_url"`
	Lat     *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

type Game struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Date            time.Time          `bson:"date" json:"date"`
	Location        Location           `bson:"location" json:"location"`
	MaxPlayers      int                `bson:"max_players" json:"max_players"`
	Price           float64            `bson:"price" json:"price"` // euros per player
	PaymentURL      string             `bson:"payment_url,omitempty" json:"payment_url,omitempty"`
	Players         []GamePlayer       `bson:"players" json:"players"`
	WaitingList     []GamePlayer       `bson:"waiting_list" json:"waiting_list"`
	Status          string             `bson:"status" json:"status"` // 'upcoming', 'cancelled', 'archived'
	CreatedBy       string             `bson:"created_by" json:"created_by"`
	NeedsBall       bool               `bson:"needs_ball" json:"needs_ball"`
	NeedsSpeaker    bool               `bson:"needs_speaker" json:"needs_speaker"`
	CalendarEventID string             `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"`
	Version         int64              `bson:"version" json:"-"` // optimistic concurrency token
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// ValidStatusChange reports whether a game may move from one lifecycle
// status to another. Same-status writes are allowed so partial updates
// can resend the current value.
func ValidStatusChange(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusUpcoming:
		return to == StatusCancelled || to == StatusArchived
	case StatusCancelled:
		return to == StatusArchived
	}
	return false
}
