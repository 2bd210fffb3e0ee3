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

// MongoSubscriberStore implements SubscriberStore on the 'subscribers'
// collection.
type MongoSubscriberStore struct {
	coll *mongo.Collection
}

func NewMongoSubscriberStore(db *database.DB) *MongoSubscriberStore {
	return &MongoSubscriberStore{coll: db.Collection(SubscribersCollection)}
}

func (s *MongoSubscriberStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("subscriber lookup: %w", err)
	}
	return &sub, nil
}

func (s *MongoSubscriberStore) Create(ctx context.Context, sub *models.Subscriber) error {
	sub.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("subscriber insert: %w", err)
	}
	return nil
}

// Reactivate flips an inactive record back to active and resets the
// subscription timestamp, reusing the record instead of creating a new one.
func (s *MongoSubscriberStore) Reactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	result, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"isActive": true, "subscribedAt": at},
	})
	if err != nil {
		return fmt.Errorf("subscriber reactivate: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoSubscriberStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"isActive": false},
	})
	if err != nil {
		return fmt.Errorf("subscriber deactivate: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoSubscriberStore) ListActive(ctx context.Context) ([]models.Subscriber, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("subscribers find: %w", err)
	}
	defer cursor.Close(ctx)

	subs := []models.Subscriber{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("subscribers decode: %w", err)
	}
	return subs, nil
}

// RecordSend bumps the email counter and stamps the last send time after a
// successful broadcast delivery.
func (s *MongoSubscriberStore) RecordSend(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	result, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"emailCount": 1},
		"$set": bson.M{"lastEmailSent": at},
	})
	if err != nil {
		return fmt.Errorf("subscriber send record: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the unique index backing the one-record-per-email
// invariant. Called once at bootstrap.
func (s *MongoSubscriberStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
