// Package store owns all access to the document database. Handlers depend on
// the interfaces here, never on the driver directly, so business behavior can
// be tested against in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/modavia/modavia-golang/internal/models"
)

// Collection names in the application database.
const (
	ProductsCollection    = "products"
	SubscribersCollection = "subscribers"
	LooksCollection       = "looks"
)

var (
	// ErrNotFound is returned when an id or email matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

// ProductFilter are the optional storefront/admin list filters.
// AdminView lifts the stock > 0 restriction applied to shoppers.
type ProductFilter struct {
	Gender      string
	Brand       string
	NewArrivals bool
	AdminView   bool
}

// ScopeField discriminates the optional narrowing applied to a bulk
// mutation's target id set.
type ScopeField string

const (
	ScopeNone     ScopeField = ""
	ScopeBrand    ScopeField = "brand"
	ScopeCategory ScopeField = "category"
)

// Scope narrows a bulk operation's id set to products whose brand or
// category equals Value.
type Scope struct {
	Field ScopeField
	Value string
}

// ProductStore is the catalog's persistence contract.
type ProductStore interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, query string, limit int64) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Replace(ctx context.Context, id primitive.ObjectID, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID, scope Scope) ([]models.Product, error)
	UpdatePricing(ctx context.Context, id primitive.ObjectID, p *models.Product) error
}

// SubscriberStore is the newsletter persistence contract. Emails passed in
// are expected to be normalized already.
type SubscriberStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, s *models.Subscriber) error
	Reactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	ListActive(ctx context.Context) ([]models.Subscriber, error)
	RecordSend(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// LookStore persists "total look" promotional groupings.
type LookStore interface {
	List(ctx context.Context) ([]models.Look, error)
	Create(ctx context.Context, l *models.Look) error
	Replace(ctx context.Context, id primitive.ObjectID, l *models.Look) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
