package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel values substituted for absent fields at read time, so the
// storefront never sees an undefined brand/category.
const (
	DefaultBrand    = "No Brand"
	DefaultCategory = "Other"
)

// Gender values accepted on a product. GenderAll products show up in both
// storefront sections.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderAll    = "All"
)

// Characteristic is one ordered key/value pair on a product ("Fabric": "Wool").
type Characteristic struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Product is the document stored in the 'products' collection.
// The ordered Images list is the single source of truth for media;
// MainImage is derived from it when the record is shaped for clients.
type Product struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Price              float64            `json:"price" bson:"price"`
	OriginalPrice      *float64           `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	DiscountPercentage *int               `json:"discountPercentage,omitempty" bson:"discountPercentage,omitempty"`
	Stock              int                `json:"stock" bson:"stock"`
	Brand              string             `json:"brand" bson:"brand"`
	BrandLogo          string             `json:"brandLogo,omitempty" bson:"brandLogo,omitempty"`
	Sizes              string             `json:"sizes" bson:"sizes"`
	Gender             string             `json:"gender" bson:"gender"`
	Category           string             `json:"category" bson:"category"`
	Subcategory        string             `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Description        string             `json:"description" bson:"description"`
	IsNewArrival       bool               `json:"isNewArrival" bson:"isNewArrival"`
	Characteristics    []Characteristic   `json:"characteristics" bson:"characteristics"`
	Images             []string           `json:"images" bson:"images"`
	MainImage          string             `json:"mainImage" bson:"-"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
}

// ApplyDefaults backfills sentinel values so optional fields are never
// undefined in API responses. Called on every record read out of the database.
func (p *Product) ApplyDefaults() {
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Gender == "" {
		p.Gender = GenderAll
	}
	if p.Characteristics == nil {
		p.Characteristics = []Characteristic{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.MainImage = p.PrimaryImage()
}

// PrimaryImage returns the first image in the ordered list, or "" when the
// product has no media yet.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountedPrice computes the selling price for a base price and a discount
// percentage, rounded to cents: base * (1 - pct/100).
func DiscountedPrice(base float64, pct int) float64 {
	return math.Round(base*(1-float64(pct)/100)*100) / 100
}

// ValidDiscount reports whether pct is inside the accepted 0-99 range.
// 100 is excluded on purpose: a free product is a data-entry mistake.
func ValidDiscount(pct int) bool {
	return pct >= 0 && pct <= 99
}

// ApplyDiscount sets the discount fields on the product in place.
//
// The first application captures the current price as originalPrice; later
// re-applications keep that capture, so sequential discounts never compound.
// pct == 0 removes the discount: price reverts to the stored originalPrice
// and both discount fields are cleared.
func (p *Product) ApplyDiscount(pct int) {
	if pct == 0 {
		if p.OriginalPrice != nil {
			p.Price = *p.OriginalPrice
		}
		p.OriginalPrice = nil
		p.DiscountPercentage = nil
		return
	}

	if p.OriginalPrice == nil {
		base := p.Price
		p.OriginalPrice = &base
	}
	p.DiscountPercentage = &pct
	p.Price = DiscountedPrice(*p.OriginalPrice, pct)
}
