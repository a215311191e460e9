package internal

import (
	"cmp"
	"slices"
	"strings"
)

type SortKey string

const (
	SortByElo        SortKey = "elo"
	SortByStreamer   SortKey = "streamer"
	SortByAccount    SortKey = "summonerName"
	SortByRole       SortKey = "rol"
	SortByTotalGames SortKey = "totalGames"
	SortByWins       SortKey = "wins"
	SortByLosses     SortKey = "losses"
	SortByWinRate    SortKey = "winRate"
)

var sortKeys = []SortKey{
	SortByStreamer,
	SortByRole,
	SortByAccount,
	SortByElo,
	SortByTotalGames,
	SortByWins,
	SortByLosses,
	SortByWinRate,
}

// ParseSortKey falls back to ELO for anything it does not know.
func ParseSortKey(s string) SortKey {
	for _, k := range sortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortByElo
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Descending)) {
		return Descending
	}
	return Ascending
}

type RankedEntry struct {
	Record   PlayerRecord
	Score    int
	Position int
}

// RankedView is derived state: it is rebuilt from the record list on every
// change and never stored.
type RankedView struct {
	Entries   []RankedEntry
	Search    string
	SortKey   SortKey
	Direction Direction
}

func (v RankedView) Total() int {
	return len(v.Entries)
}

// Filter keeps the records whose streamer name contains query, ignoring case.
// The input slice is not modified.
func Filter(records []PlayerRecord, query string) []PlayerRecord {
	needle := strings.ToLower(query)
	out := make([]PlayerRecord, 0, len(records))
	for _, r := range records {
		if needle == "" || strings.Contains(strings.ToLower(r.StreamerName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Compare orders two records for key and direction. Unranked records go
// after ranked ones whatever the direction; two unranked records are equal.
func Compare(a, b PlayerRecord, key SortKey, dir Direction) int {
	aRanked, bRanked := a.IsRanked(), b.IsRanked()
	switch {
	case !aRanked && !bRanked:
		return 0
	case !aRanked:
		return 1
	case !bRanked:
		return -1
	}

	var c int
	switch key {
	case SortByElo:
		c = cmp.Compare(a.Score(), b.Score())
	case SortByStreamer:
		c = strings.Compare(a.StreamerName, b.StreamerName)
	case SortByAccount:
		c = strings.Compare(a.AccountName, b.AccountName)
	case SortByRole:
		c = strings.Compare(string(a.Role), string(b.Role))
	case SortByTotalGames:
		c = cmp.Compare(a.TotalGames, b.TotalGames)
	case SortByWins:
		c = cmp.Compare(a.Wins(), b.Wins())
	case SortByLosses:
		c = cmp.Compare(a.Losses(), b.Losses())
	case SortByWinRate:
		c = cmp.Compare(a.WinRate(), b.WinRate())
	}

	if dir == Descending {
		return -c
	}
	return c
}

// Rank filters, stable-sorts and numbers the records. Positions run 1..N
// over the filtered set and are assigned fresh on each call.
func Rank(records []PlayerRecord, search string, key SortKey, dir Direction) RankedView {
	filtered := Filter(records, search)
	slices.SortStableFunc(filtered, func(a, b PlayerRecord) int {
		return Compare(a, b, key, dir)
	})

	entries := make([]RankedEntry, len(filtered))
	for i, r := range filtered {
		entries[i] = RankedEntry{
			Record:   r,
			Score:    r.Score(),
			Position: i + 1,
		}
	}

	return RankedView{
		Entries:   entries,
		Search:    search,
		SortKey:   key,
		Direction: dir,
	}
}

type Page struct {
	Entries    []RankedEntry
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

func (p Page) HasPrev() bool {
	return p.Page > 0
}

func (p Page) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

// Paginate returns entries [page*size, page*size+size). A page past the end
// is clamped to the last page, so a shrunken result set never yields an
// out-of-range slice.
func Paginate(view RankedView, page, size int) Page {
	if size <= 0 {
		size = defaultPageSize
	}
	total := view.Total()
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	if page < 0 {
		page = 0
	}
	if totalPages == 0 {
		page = 0
	} else if page >= totalPages {
		page = totalPages - 1
	}

	start := min(page*size, total)
	end := start + min(size, total-start)

	return Page{
		Entries:    view.Entries[start:end],
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
}
