package catalog

import "github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"

// CategoryOption is one entry of the category selector with its subcategories
type CategoryOption struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Categories derives selector options from a product list in first-seen order.
// Products without a subcategory contribute only their category.
func Categories(products []models.Product) []CategoryOption {
	options := []CategoryOption{}
	index := map[string]int{}
	seen := map[string]map[string]bool{}

	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(options)
			index[p.Category] = i
			options = append(options, CategoryOption{Name: p.Category, Subcategories: []string{}})
			seen[p.Category] = map[string]bool{}
		}
		if p.Subcategory == nil || *p.Subcategory == "" {
			continue
		}
		sub := *p.Subcategory
		if seen[p.Category][sub] {
			continue
		}
		seen[p.Category][sub] = true
		options[i].Subcategories = append(options[i].Subcategories, sub)
	}
	return options
}

// Subcategories returns the subcategory options for one category. All and
// unknown categories have none.
func Subcategories(options []CategoryOption, category string) []string {
	for _, o := range options {
		if o.Name == category {
			return o.Subcategories
		}
	}
	return nil
}
