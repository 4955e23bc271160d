package catalog

import (
	"errors"
	"slices"
	"testing"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSort_Alphabetical(t *testing.T) {
	products := []models.Product{
		product(1, "Banana", "Frutas", 1),
		product(2, "Ananá", "Frutas", 1),
		product(3, "pera", "Frutas", 1),
		product(4, "Manzana", "Frutas", 1),
	}
	got := names(Sort(products, SortAlphabetical))
	if diff := cmp.Diff([]string{"Ananá", "Banana", "Manzana", "pera"}, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSort_AlphabeticalSpanishCollation(t *testing.T) {
	products := []models.Product{
		product(1, "Zanahoria", "Verduras", 1),
		product(2, "Ñandú", "Aves", 1),
		product(3, "Oca", "Verduras", 1),
		product(4, "nuez", "Frutos secos", 1),
		product(5, "Manzana", "Frutas", 1),
	}
	got := names(Sort(products, SortAlphabetical))
	if diff := cmp.Diff([]string{"Manzana", "nuez", "Ñandú", "Oca", "Zanahoria"}, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSort_AlphabeticalCaseOnlyDifferencesKeepInputOrder(t *testing.T) {
	products := []models.Product{
		product(1, "pera", "Frutas", 1),
		product(2, "Pera", "Frutas", 1),
		product(3, "PERA", "Frutas", 1),
		product(4, "Banana", "Frutas", 1),
	}
	if diff := cmp.Diff([]int{4, 1, 2, 3}, ids(Sort(products, SortAlphabetical))); diff != "" {
		t.Fatalf("case-only differences reordered (-want +got):\n%s", diff)
	}
}

func TestSort_WorkedExample(t *testing.T) {
	products := []models.Product{
		product(1, "Apple", "Frutas", 10),
		withPromo(product(2, "banana", "Frutas", 5), 3),
		product(3, "Cherry", "Frutas", 20),
	}
	cases := []struct {
		option SortOption
		want   []string
	}{
		{SortAlphabetical, []string{"Apple", "banana", "Cherry"}},
		{SortPriceAsc, []string{"banana", "Apple", "Cherry"}},
		{SortPriceDesc, []string{"Cherry", "Apple", "banana"}},
		{SortPromotions, []string{"banana", "Apple", "Cherry"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.option), func(t *testing.T) {
			if diff := cmp.Diff(tc.want, names(Sort(products, tc.option))); diff != "" {
				t.Fatalf("unexpected order (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_Idempotent(t *testing.T) {
	products := append(produce(),
		product(7, "banana", "Frutas", 1.2),
		withPromo(product(8, "Ñame", "Verduras", 4), 4),
	)
	for _, option := range SortOptions() {
		t.Run(string(option), func(t *testing.T) {
			once := Sort(products, option)
			twice := Sort(once, option)
			if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
				t.Fatalf("sorting twice changed the order (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestSort_AscReversedMatchesDescMultiset(t *testing.T) {
	products := append(produce(), product(7, "Pomelo", "Frutas", 1.8), product(8, "Papa", "Verduras", 0.7))

	asc := ids(Sort(products, SortPriceAsc))
	slices.Reverse(asc)
	desc := ids(Sort(products, SortPriceDesc))

	if diff := cmp.Diff(desc, asc, cmpopts.SortSlices(func(a, b int) bool { return a < b })); diff != "" {
		t.Fatalf("ascending and descending hold different products (-desc +asc):\n%s", diff)
	}

	// reversed ascending is descending by effective price
	prices := func(order []int) []float64 {
		byID := map[int]models.Product{}
		for _, p := range products {
			byID[p.ID] = p
		}
		out := make([]float64, len(order))
		for i, id := range order {
			p := byID[id]
			out[i] = p.EffectivePrice()
		}
		return out
	}
	if diff := cmp.Diff(prices(desc), prices(asc)); diff != "" {
		t.Fatalf("reversed ascending prices differ from descending (-desc +asc):\n%s", diff)
	}
}

func TestSort_SearchThenAlphabetical(t *testing.T) {
	products := []models.Product{
		product(1, "Banana", "Frutas", 1),
		product(2, "Ananá", "Frutas", 1),
		product(3, "Pera", "Frutas", 1),
	}
	got := names(Criteria{Category: All, Subcategory: All, Sort: SortAlphabetical, SearchTerm: "an"}.Apply(products))
	if diff := cmp.Diff([]string{"Ananá", "Banana"}, got); diff != "" {
		t.Fatalf("unexpected grid (-want +got):\n%s", diff)
	}
}

func TestSort_PriceUsesEffectivePrice(t *testing.T) {
	products := []models.Product{
		product(1, "A", "X", 5),
		withPromo(product(2, "B", "X", 10), 2),
		product(3, "C", "X", 3),
	}

	asc := ids(Sort(products, SortPriceAsc))
	if diff := cmp.Diff([]int{2, 3, 1}, asc); diff != "" {
		t.Fatalf("unexpected ascending order (-want +got):\n%s", diff)
	}

	desc := ids(Sort(products, SortPriceDesc))
	if diff := cmp.Diff([]int{1, 3, 2}, desc); diff != "" {
		t.Fatalf("unexpected descending order (-want +got):\n%s", diff)
	}
}

func TestSort_EqualKeysKeepInputOrder(t *testing.T) {
	products := []models.Product{
		product(1, "Uno", "X", 2),
		product(2, "Dos", "X", 1),
		product(3, "Tres", "X", 2),
		product(4, "Cuatro", "X", 1),
	}

	if diff := cmp.Diff([]int{2, 4, 1, 3}, ids(Sort(products, SortPriceAsc))); diff != "" {
		t.Fatalf("ascending ties reordered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3, 2, 4}, ids(Sort(products, SortPriceDesc))); diff != "" {
		t.Fatalf("descending ties reordered (-want +got):\n%s", diff)
	}
}

func TestSort_PromotionsFirst(t *testing.T) {
	products := []models.Product{
		product(1, "Sin oferta 1", "X", 1),
		withPromo(product(2, "Oferta 1", "X", 5), 4),
		product(3, "Sin oferta 2", "X", 1),
		// a promotion price above the list price still counts as a promotion
		withPromo(product(4, "Oferta 2", "X", 5), 6),
	}
	got := ids(Sort(products, SortPromotions))
	if diff := cmp.Diff([]int{2, 4, 1, 3}, got); diff != "" {
		t.Fatalf("unexpected promotions order (-want +got):\n%s", diff)
	}
}

func TestSort_UnknownOptionKeepsOrder(t *testing.T) {
	products := produce()
	got := ids(Sort(products, SortOption("popularidad")))
	if diff := cmp.Diff(ids(products), got); diff != "" {
		t.Fatalf("unknown option reordered products (-want +got):\n%s", diff)
	}
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	products := produce()
	before := ids(products)
	_ = Sort(products, SortPriceDesc)
	if diff := cmp.Diff(before, ids(products)); diff != "" {
		t.Fatalf("input slice reordered (-want +got):\n%s", diff)
	}
}

func TestParseSortOption(t *testing.T) {
	got, err := ParseSortOption("")
	if err != nil || got != DefaultSortOption {
		t.Fatalf("expected default option for empty input, got %q, %v", got, err)
	}

	for _, o := range SortOptions() {
		got, err := ParseSortOption(string(o))
		if err != nil || got != o {
			t.Fatalf("expected %q to parse, got %q, %v", o, got, err)
		}
	}

	if _, err := ParseSortOption("precio"); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestSortOption_Label(t *testing.T) {
	if got := SortAlphabetical.Label(); got != "Ordenar (A-Z)" {
		t.Fatalf("expected alphabetical label, got %q", got)
	}
	if got := SortPromotions.Label(); got != "Ofertas" {
		t.Fatalf("expected promotions label, got %q", got)
	}
}
