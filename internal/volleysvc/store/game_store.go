package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

const gamesCollection = "games"

type GameStore struct {
	coll *mongo.Collection
}

func NewGameStore(db *mongo.Database) *GameStore {
	return &GameStore{coll: db.Collection(gamesCollection)}
}

// GameFilter narrows List the same way the subscription filters do.
type GameFilter struct {
	Status    string
	CreatedBy string
	Limit     int64
}

func (s *GameStore) Create(ctx context.Context, game *models.Game) (string, error) {
	normalizeGameTimes(game)

	res, err := s.coll.InsertOne(ctx, game)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	game.ID = id

	return id.Hex(), nil
}

func (s *GameStore) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, nil // malformed id can never match a document
	}

	game := &models.Game{}
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // game not found
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	return game, nil
}

// List returns games ordered by date ascending, optionally narrowed by
// status and owner.
func (s *GameStore) List(ctx context.Context, f GameFilter) ([]*models.Game, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CreatedBy != "" {
		filter["created_by"] = f.CreatedBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if f.Limit > 0 {
		opts = opts.SetLimit(f.Limit)
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cur.Close(ctx)

	var games []*models.Game
	for cur.Next(ctx) {
		game := &models.Game{}
		if err := cur.Decode(game); err != nil {
			return nil, fmt.Errorf("failed to decode game: %w", err)
		}
		games = append(games, game)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("game cursor failed: %w", err)
	}

	return games, nil
}

// UpdateFields applies an admin edit conditional on the version the caller
// read, so guards checked against that snapshot still hold at write time.
// A false return with no error means the version moved (or the game is
// gone) and the caller should re-read and replay.
func (s *GameStore) UpdateFields(ctx context.Context, gameID string, version int64, set bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return false, nil
	}

	set["updated_at"] = storeTime(time.Now())

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "version": version}, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return false, fmt.Errorf("failed to update game: %w", err)
	}

	return res.MatchedCount == 1, nil
}

// ReplaceRoster writes both lists conditional on the version the caller
// read. A false return with no error means another writer got there first
// and the caller should re-read and replay.
func (s *GameStore) ReplaceRoster(ctx context.Context, gameID string, version int64, players, waiting []models.GamePlayer) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return false, nil
	}

	for i := range players {
		players[i].JoinedAt = storeTime(players[i].JoinedAt)
	}
	for i := range waiting {
		waiting[i].JoinedAt = storeTime(waiting[i].JoinedAt)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "version": version},
		bson.M{
			"$set": bson.M{
				"players":      players,
				"waiting_list": waiting,
				"updated_at":   storeTime(time.Now()),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to replace roster: %w", err)
	}

	return res.MatchedCount == 1, nil
}

func (s *GameStore) Delete(ctx context.Context, gameID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return false, nil
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}

	return res.DeletedCount == 1, nil
}

// storeTime pins a timestamp to what the store hands back on read: UTC at
// millisecond precision. Normalizing on write keeps the round trip lossless.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func normalizeGameTimes(g *models.Game) {
	g.Date = storeTime(g.Date)
	g.CreatedAt = storeTime(g.CreatedAt)
	g.UpdatedAt = storeTime(g.UpdatedAt)
	for i := range g.Players {
		g.Players[i].JoinedAt = storeTime(g.Players[i].JoinedAt)
	}
	for i := range g.WaitingList {
		g.WaitingList[i].JoinedAt = storeTime(g.WaitingList[i].JoinedAt)
	}
}
