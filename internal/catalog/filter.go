package catalog

import (
	"strings"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
	"golang.org/x/text/cases"
)

// All is the selector value meaning "no filter" for category and subcategory.
const All = "all"

// Filter applies the search, category and subcategory stages in that order.
// Input order is preserved and the input slice is never modified.
func Filter(products []models.Product, searchTerm, category, subcategory string) []models.Product {
	out := FilterBySearch(products, searchTerm)
	out = FilterByCategory(out, category)
	return FilterBySubcategory(out, category, subcategory)
}

// FilterBySearch keeps products whose folded name contains the folded term.
func FilterBySearch(products []models.Product, term string) []models.Product {
	if term == "" {
		return keep(products, func(models.Product) bool { return true })
	}
	// Casers are stateful; one per call
	folder := cases.Fold()
	needle := folder.String(term)
	return keep(products, func(p models.Product) bool {
		return strings.Contains(folder.String(p.Name), needle)
	})
}

// FilterByCategory keeps products of exactly the given category, or everything for All.
func FilterByCategory(products []models.Product, category string) []models.Product {
	if category == All {
		return keep(products, func(models.Product) bool { return true })
	}
	return keep(products, func(p models.Product) bool {
		return p.Category == category
	})
}

// FilterBySubcategory keeps products of exactly the given subcategory. It is a
// no-op when the category is All, or the subcategory is All or empty.
func FilterBySubcategory(products []models.Product, category, subcategory string) []models.Product {
	if category == All || subcategory == All || subcategory == "" {
		return keep(products, func(models.Product) bool { return true })
	}
	return keep(products, func(p models.Product) bool {
		return p.Subcategory != nil && *p.Subcategory == subcategory
	})
}

func keep(products []models.Product, pred func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
