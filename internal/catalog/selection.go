package catalog

import (
	"sync"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

// SearchStore holds the search term shared between the header and the page.
type SearchStore interface {
	SearchTerm() string
	SetSearchTerm(term string)
}

// SearchTerm is the in-process SearchStore. The zero value is an empty term.
type SearchTerm struct {
	mu   sync.RWMutex
	term string
}

// NewSearchTerm creates an empty shared search store
func NewSearchTerm() *SearchTerm {
	return &SearchTerm{}
}

func (s *SearchTerm) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

func (s *SearchTerm) SetSearchTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

// Criteria is a point-in-time copy of the selectors
type Criteria struct {
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Sort        SortOption `json:"sort"`
	SearchTerm  string     `json:"search"`
}

// DefaultCriteria is the state a page mounts with
func DefaultCriteria() Criteria {
	return Criteria{Category: All, Subcategory: All, Sort: DefaultSortOption}
}

// Apply runs the filter pipeline and then the sort stage
func (c Criteria) Apply(products []models.Product) []models.Product {
	return Sort(Filter(products, c.SearchTerm, c.Category, c.Subcategory), c.Sort)
}

// Selection owns the page selectors. Narrowing the category or subcategory
// clears the shared search term; searching never touches the selectors.
type Selection struct {
	mu          sync.Mutex
	category    string
	subcategory string
	sort        SortOption
	search      SearchStore
}

// NewSelection creates a Selection with default values bound to a shared search store
func NewSelection(search SearchStore) *Selection {
	if search == nil {
		search = NewSearchTerm()
	}
	return &Selection{
		category:    All,
		subcategory: All,
		sort:        DefaultSortOption,
		search:      search,
	}
}

// SelectCategory sets the category, resets the subcategory and clears the search.
func (s *Selection) SelectCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.subcategory = All
	s.search.SetSearchTerm("")
}

// SelectSubcategory sets the subcategory and clears the search.
func (s *Selection) SelectSubcategory(subcategory string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subcategory = subcategory
	s.search.SetSearchTerm("")
}

func (s *Selection) SetSort(option SortOption) {
	s.mu.Lock()
	s.sort = option
	s.mu.Unlock()
}

// ResetFilters restores category, subcategory and search. Sort is kept.
func (s *Selection) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = All
	s.subcategory = All
	s.search.SetSearchTerm("")
}

// SearchStore exposes the shared store so a header can be bound to the same term
func (s *Selection) SearchStore() SearchStore {
	return s.search
}

// Criteria snapshots the current selectors
func (s *Selection) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Criteria{
		Category:    s.category,
		Subcategory: s.subcategory,
		Sort:        s.sort,
		SearchTerm:  s.search.SearchTerm(),
	}
}
