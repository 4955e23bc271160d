package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// UnitType represents how a product is sold
type UnitType string

const (
	UnitTypeWeight UnitType = "kg"
	UnitTypeUnit   UnitType = "unit"
)

// Value implements the driver.Valuer interface for database storage
func (u UnitType) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (u *UnitType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
		return nil
	case string:
		*u = UnitType(strings.TrimSpace(v))
		return nil
	case []byte:
		*u = UnitType(strings.TrimSpace(string(v)))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into UnitType", value)
	}
}

// Label returns the short price suffix shown on product cards
func (u UnitType) Label() string {
	if u == UnitTypeWeight {
		return "/kg"
	}
	return "/u"
}

// ProductRow is a row of the products table in store naming
type ProductRow struct {
	ID             int      `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	Category       string   `json:"category" db:"category"`
	Subcategory    *string  `json:"subcategory" db:"subcategory"`
	Price          float64  `json:"price" db:"price"`
	ImageURL       *string  `json:"image_url" db:"image_url"`
	UnitType       UnitType `json:"unit_type" db:"unit_type"`
	PromotionPrice *float64 `json:"promotion_price" db:"promotion_price"`
	IsPaused       bool     `json:"is_paused" db:"is_paused"`
}

// ToProduct maps a store row into the view naming, field for field
func (r ProductRow) ToProduct() Product {
	return Product{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		Price:          r.Price,
		ImageURL:       r.ImageURL,
		UnitType:       r.UnitType,
		PromotionPrice: r.PromotionPrice,
		IsPaused:       r.IsPaused,
	}
}

// Product represents a product as the storefront sees it
type Product struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Subcategory    *string  `json:"subcategory"`
	Price          float64  `json:"price"`
	ImageURL       *string  `json:"imageUrl"`
	UnitType       UnitType `json:"unitType"`
	PromotionPrice *float64 `json:"promotionPrice"`
	IsPaused       bool     `json:"isPaused"`
}

// HasPromotion reports whether a promotion price is set
func (p *Product) HasPromotion() bool {
	return p.PromotionPrice != nil
}

// EffectivePrice is the promotion price when set, otherwise the list price
func (p *Product) EffectivePrice() float64 {
	if p.PromotionPrice != nil {
		return *p.PromotionPrice
	}
	return p.Price
}

// IsDiscounted is true when the promotion price undercuts the list price
func (p *Product) IsDiscounted() bool {
	return p.PromotionPrice != nil && *p.PromotionPrice < p.Price
}

// Card is what the grid hands to the card renderer. ImageURL is never empty.
type Card struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Subcategory    *string  `json:"subcategory"`
	Price          float64  `json:"price"`
	PromotionPrice *float64 `json:"promotionPrice"`
	EffectivePrice float64  `json:"effectivePrice"`
	IsDiscounted   bool     `json:"isDiscounted"`
	ImageURL       string   `json:"imageUrl"`
	UnitType       UnitType `json:"unitType"`
	UnitLabel      string   `json:"unitLabel"`
}

// ToCard converts a Product for rendering, substituting the placeholder image when absent
func (p *Product) ToCard(placeholder string) Card {
	image := placeholder
	if p.ImageURL != nil && *p.ImageURL != "" {
		image = *p.ImageURL
	}
	return Card{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Price:          p.Price,
		PromotionPrice: p.PromotionPrice,
		EffectivePrice: p.EffectivePrice(),
		IsDiscounted:   p.IsDiscounted(),
		ImageURL:       image,
		UnitType:       p.UnitType,
		UnitLabel:      p.UnitType.Label(),
	}
}
