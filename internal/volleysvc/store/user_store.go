package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

const usersCollection = "users"

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) Create(ctx context.Context, user models.User) error {
	user.CreatedAt = storeTime(user.CreatedAt)

	_, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("could not create user: %w", err)
	}

	return nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u := &models.User{}
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	return s.list(ctx, bson.M{})
}

// ListByRole backs the pending-approvals view (role == guest).
func (s *UserStore) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return s.list(ctx, bson.M{"role": role})
}

func (s *UserStore) list(ctx context.Context, filter bson.M) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*models.User
	for cur.Next(ctx) {
		u := &models.User{}
		if err := cur.Decode(u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("user cursor failed: %w", err)
	}

	return users, nil
}

// UpdateRole writes the new role and, when approvedAt is set, the approval
// stamp alongside it.
func (s *UserStore) UpdateRole(ctx context.Context, userID, role string, approvedAt *time.Time) (bool, error) {
	set := bson.M{"role": role}
	if approvedAt != nil {
		set["approved_at"] = storeTime(*approvedAt)
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update user role: %w", err)
	}

	return res.MatchedCount == 1, nil
}
