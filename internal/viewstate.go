package internal

// ViewState is everything the table needs besides the records. Transitions
// return a new value; nothing here is shared between requests.
type ViewState struct {
	Search    string
	SortKey   SortKey
	Direction Direction
	Page      int
	PageSize  int
}

func NewViewState(pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return ViewState{
		SortKey:   SortByElo,
		Direction: Ascending,
		PageSize:  pageSize,
	}
}

// WithSearch changes the filter and goes back to the first page.
func (s ViewState) WithSearch(query string) ViewState {
	s.Search = query
	s.Page = 0
	return s
}

// WithSort selects key. Selecting the active ascending key flips it to
// descending; anything else starts ascending.
func (s ViewState) WithSort(key SortKey) ViewState {
	if s.SortKey == key && s.Direction == Ascending {
		s.Direction = Descending
	} else {
		s.Direction = Ascending
	}
	s.SortKey = key
	return s
}

func (s ViewState) WithPage(page int) ViewState {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// Compute ranks records for this state and cuts out the requested page.
func (s ViewState) Compute(records []PlayerRecord) Page {
	view := Rank(records, s.Search, s.SortKey, s.Direction)
	return Paginate(view, s.Page, s.PageSize)
}
