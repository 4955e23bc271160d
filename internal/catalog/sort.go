package catalog

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects how the grid is ordered
type SortOption string

const (
	SortAlphabetical  SortOption = "alfabetico"
	SortPriceAsc      SortOption = "menor-precio"
	SortPriceDesc     SortOption = "mayor-precio"
	SortPromotions    SortOption = "ofertas"
	DefaultSortOption            = SortAlphabetical
)

// ErrInvalidSort is returned by ParseSortOption for unknown values
var ErrInvalidSort = errors.New("invalid sort option")

// SortOptions lists the options in the order the selector shows them
func SortOptions() []SortOption {
	return []SortOption{SortAlphabetical, SortPriceAsc, SortPriceDesc, SortPromotions}
}

// Label is the selector text for an option
func (o SortOption) Label() string {
	switch o {
	case SortAlphabetical:
		return "Ordenar (A-Z)"
	case SortPriceAsc:
		return "Menor Precio"
	case SortPriceDesc:
		return "Mayor Precio"
	case SortPromotions:
		return "Ofertas"
	default:
		return string(o)
	}
}

// ParseSortOption validates a raw option. Empty input yields the default.
func ParseSortOption(raw string) (SortOption, error) {
	if raw == "" {
		return DefaultSortOption, nil
	}
	o := SortOption(raw)
	if !slices.Contains(SortOptions(), o) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, raw)
	}
	return o, nil
}

type sortKey struct {
	product models.Product
	name    []byte
}

// Sort returns a new slice ordered by option. Equal keys keep their input order.
// Unknown options leave the order unchanged.
func Sort(products []models.Product, option SortOption) []models.Product {
	keys := make([]sortKey, len(products))
	var (
		collator *collate.Collator
		buf      collate.Buffer
	)
	if option == SortAlphabetical {
		// Spanish collation: case-insensitive, ñ after n
		collator = collate.New(language.Spanish, collate.IgnoreCase)
	}
	for i, p := range products {
		keys[i] = sortKey{product: p}
		if collator != nil {
			keys[i].name = collator.KeyFromString(&buf, p.Name)
		}
	}

	switch option {
	case SortAlphabetical:
		slices.SortStableFunc(keys, func(a, b sortKey) int {
			return bytes.Compare(a.name, b.name)
		})
	case SortPriceAsc:
		slices.SortStableFunc(keys, func(a, b sortKey) int {
			return cmp.Compare(a.product.EffectivePrice(), b.product.EffectivePrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(keys, func(a, b sortKey) int {
			return cmp.Compare(b.product.EffectivePrice(), a.product.EffectivePrice())
		})
	case SortPromotions:
		slices.SortStableFunc(keys, func(a, b sortKey) int {
			return promotionRank(a.product) - promotionRank(b.product)
		})
	}

	out := make([]models.Product, len(keys))
	for i, k := range keys {
		out[i] = k.product
	}
	return out
}

func promotionRank(p models.Product) int {
	if p.HasPromotion() {
		return 0
	}
	return 1
}
