package catalog

// Header is the search box and reset control above the grid. It writes the
// shared search term directly and delegates reset to the page selection.
type Header struct {
	search  SearchStore
	onReset func()
}

// NewHeader binds a header to the shared store and a reset handler
func NewHeader(search SearchStore, onReset func()) *Header {
	return &Header{search: search, onReset: onReset}
}

func (h *Header) SearchTerm() string {
	return h.search.SearchTerm()
}

func (h *Header) Search(term string) {
	h.search.SetSearchTerm(term)
}

func (h *Header) Reset() {
	if h.onReset != nil {
		h.onReset()
	}
}
