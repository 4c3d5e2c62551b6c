package db

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the document store named by MONGODB_URI and pings it so a
// bad URI fails at boot, not on the first request.
func Connect() (*mongo.Database, context.CancelFunc, error) {
	mongoURI := os.Getenv("MONGODB_URI")

	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, err
	}

	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		cancel()
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, nil, err
	}

	return client.Database(dbName), cancel, nil
}

// EnsureIndexes creates the indexes the list queries rely on: games are
// listed by status and by owner ordered by date, users are filtered by role.
func EnsureIndexes(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	games := db.Collection("games")
	_, err := games.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		log.Fatalf("unable to create game indexes: %v", err)
	}

	users := db.Collection("users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}},
	})
	if err != nil {
		log.Fatalf("unable to create user index: %v", err)
	}
}
