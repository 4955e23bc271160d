package catalog

import (
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func product(id int, name, category string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Category: category, Price: price, UnitType: models.UnitTypeUnit}
}

func withSub(p models.Product, sub string) models.Product {
	p.Subcategory = strPtr(sub)
	return p
}

func withPromo(p models.Product, promo float64) models.Product {
	p.PromotionPrice = floatPtr(promo)
	return p
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// produce is a small mixed catalog used across tests
func produce() []models.Product {
	return []models.Product{
		withSub(product(1, "Manzana Roja", "Frutas", 2.5), "Pepitas"),
		withPromo(withSub(product(2, "Banana", "Frutas", 1.8), "Tropicales"), 1.2),
		withSub(product(3, "Ananá", "Frutas", 3.0), "Tropicales"),
		product(4, "Lechuga", "Verduras", 1.0),
		withPromo(withSub(product(5, "Zanahoria", "Verduras", 0.9), "Raíces"), 0.7),
		withSub(product(6, "Queso Azul", "Lácteos", 6.4), "Quesos"),
	}
}
