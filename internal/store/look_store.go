package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modavia/modavia-golang/internal/database"
	"github.com/modavia/modavia-golang/internal/models"
)

// MongoLookStore implements LookStore on the 'looks' collection.
type MongoLookStore struct {
	coll *mongo.Collection
}

func NewMongoLookStore(db *database.DB) *MongoLookStore {
	return &MongoLookStore{coll: db.Collection(LooksCollection)}
}

func (s *MongoLookStore) List(ctx context.Context) ([]models.Look, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("looks find: %w", err)
	}
	defer cursor.Close(ctx)

	looks := []models.Look{}
	if err := cursor.All(ctx, &looks); err != nil {
		return nil, fmt.Errorf("looks decode: %w", err)
	}
	return looks, nil
}

func (s *MongoLookStore) Create(ctx context.Context, l *models.Look) error {
	l.ID = primitive.NewObjectID()
	l.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("look insert: %w", err)
	}
	return nil
}

func (s *MongoLookStore) Replace(ctx context.Context, id primitive.ObjectID, l *models.Look) error {
	l.ID = id
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, l)
	if err != nil {
		return fmt.Errorf("look replace: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoLookStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("look delete: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
