package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modavia/modavia-golang/internal/database"
	"github.com/modavia/modavia-golang/internal/models"
)

// MongoProductStore implements ProductStore on the 'products' collection.
type MongoProductStore struct {
	coll *mongo.Collection
}

func NewMongoProductStore(db *database.DB) *MongoProductStore {
	return &MongoProductStore{coll: db.Collection(ProductsCollection)}
}

// caseInsensitiveExact matches the whole field value ignoring case,
// not a substring.
func caseInsensitiveExact(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

func caseInsensitiveSubstring(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// BuildListFilter translates a ProductFilter into the query document.
// Exported so the filter semantics are testable without a database.
func BuildListFilter(f ProductFilter) bson.M {
	filter := bson.M{}
	if !f.AdminView {
		filter["stock"] = bson.M{"$gt": 0}
	}
	if f.Gender != "" {
		// GenderAll products belong to both storefront sections.
		filter["gender"] = bson.M{"$in": bson.A{f.Gender, models.GenderAll}}
	}
	if f.Brand != "" {
		filter["brand"] = caseInsensitiveExact(f.Brand)
	}
	if f.NewArrivals {
		filter["isNewArrival"] = true
	}
	return filter
}

// BuildSearchFilter builds the free-text query document: case-insensitive
// substring match across title, brand, category and description, in-stock
// items only.
func BuildSearchFilter(query string) bson.M {
	re := caseInsensitiveSubstring(query)
	return bson.M{
		"stock": bson.M{"$gt": 0},
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"brand": re},
			bson.M{"category": re},
			bson.M{"description": re},
		},
	}
}

// BuildScopeFilter narrows an id set to documents whose scope field equals
// the scope value.
func BuildScopeFilter(ids []primitive.ObjectID, scope Scope) bson.M {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if scope.Field != ScopeNone {
		filter[string(scope.Field)] = scope.Value
	}
	return filter
}

func (s *MongoProductStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("products find: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products decode: %w", err)
	}
	for i := range products {
		products[i].ApplyDefaults()
	}
	return products, nil
}

func (s *MongoProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, BuildListFilter(filter), opts)
}

func (s *MongoProductStore) Search(ctx context.Context, query string, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return s.find(ctx, BuildSearchFilter(query), opts)
}

func (s *MongoProductStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product get: %w", err)
	}
	product.ApplyDefaults()
	return &product, nil
}

func (s *MongoProductStore) Create(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("product insert: %w", err)
	}
	return nil
}

func (s *MongoProductStore) Replace(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	p.ID = id
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, p)
	if err != nil {
		return fmt.Errorf("product replace: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("product delete: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every matching document in one operation. Ids with no
// matching document are silently ignored; only the deleted count is reported.
func (s *MongoProductStore) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	result, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("products bulk delete: %w", err)
	}
	return result.DeletedCount, nil
}

func (s *MongoProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID, scope Scope) ([]models.Product, error) {
	return s.find(ctx, BuildScopeFilter(ids, scope))
}

// UpdatePricing writes only the pricing trio. Absent optional fields are
// unset so a removed discount leaves no stale originalPrice behind.
func (s *MongoProductStore) UpdatePricing(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	set := bson.M{"price": p.Price}
	unset := bson.M{}
	if p.OriginalPrice != nil {
		set["originalPrice"] = *p.OriginalPrice
	} else {
		unset["originalPrice"] = ""
	}
	if p.DiscountPercentage != nil {
		set["discountPercentage"] = *p.DiscountPercentage
	} else {
		unset["discountPercentage"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("product pricing update: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
