package internal

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
)

type columnLink struct {
	Label  string
	URL    string
	Active bool
	Arrow  string
}

type pageView struct {
	Loading    bool
	Error      string
	Search     string
	SortKey    SortKey
	Direction  Direction
	PageSize   int
	Columns    []columnLink
	Rows       []LeaderboardRow
	Page       int
	TotalPages int
	Total      int
	PrevURL    string
	NextURL    string
}

var tableColumns = []struct {
	label string
	key   SortKey
}{
	{"STREAMER", SortByStreamer},
	{"ROL", SortByRole},
	{"CUENTA", SortByAccount},
	{"ELO", SortByElo},
	{"PARTIDAS", SortByTotalGames},
	{"GANADAS", SortByWins},
	{"PERDIDAS", SortByLosses},
	{"WINRATE", SortByWinRate},
}

// stateURL encodes s as query parameters for "/".
func stateURL(s ViewState, defaultSize int) string {
	q := url.Values{}
	if s.Search != "" {
		q.Set("q", s.Search)
	}
	q.Set("sort", string(s.SortKey))
	q.Set("dir", string(s.Direction))
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize != defaultSize {
		q.Set("size", strconv.Itoa(s.PageSize))
	}
	return "/?" + q.Encode()
}

func newPageView(state ViewState, page Page, icons *IconResolver, defaultSize int) pageView {
	view := pageView{
		Search:     state.Search,
		SortKey:    state.SortKey,
		Direction:  state.Direction,
		Rows:       newLeaderboardRows(page, icons),
		Page:       page.Page,
		TotalPages: max(page.TotalPages, 1),
		Total:      page.Total,
	}

	// The carried page is the clamped one so links never point past the end.
	state = state.WithPage(page.Page)

	for _, c := range tableColumns {
		link := columnLink{
			Label: c.label,
			URL:   stateURL(state.WithSort(c.key), defaultSize),
		}
		if c.key == state.SortKey {
			link.Active = true
			link.Arrow = "▲"
			if state.Direction == Descending {
				link.Arrow = "▼"
			}
		}
		view.Columns = append(view.Columns, link)
	}

	if page.HasPrev() {
		view.PrevURL = stateURL(state.WithPage(page.Page-1), defaultSize)
	}
	if page.HasNext() {
		view.NextURL = stateURL(state.WithPage(page.Page+1), defaultSize)
	}
	return view
}

// LeaderboardPageHandler renders the ranking table. A request arriving before
// the load settles waits briefly, then gets the loading view which refreshes
// itself.
func LeaderboardPageHandler(loader *Loader, icons *IconResolver, pageSize int, logger *Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, NewAPIError("Not found", http.StatusNotFound), logger, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), pageWaitTimeout)
		defer cancel()
		result, _ := loader.Wait(ctx)

		state := viewStateFromRequest(r, pageSize)
		view := pageView{Search: state.Search, SortKey: state.SortKey, Direction: state.Direction}

		switch result.Status {
		case StatusNotLoaded:
			view.Loading = true
		case StatusFailed:
			view.Error = result.Message
		default:
			view = newPageView(state, state.Compute(result.Records), icons, pageSize)
		}
		if state.PageSize != pageSize {
			view.PageSize = state.PageSize
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := leaderboardTemplate.Execute(w, view); err != nil {
			logger.Error("template_render_failed").
				Component("leaderboard").
				Operation("render_page").
				Request(r.UserAgent(), r.RemoteAddr, GetRequestID(r.Context())).
				Err(err).
				Log()
		}
	}
}

var leaderboardTemplate = template.Must(template.New("leaderboard").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Ranking SoloQ</title>
{{if .Loading}}<meta http-equiv="refresh" content="2">{{end}}
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<h1>Ranking SoloQ</h1>
<form method="get" action="/">
<input type="text" name="q" value="{{.Search}}" placeholder="Buscar invocador">
<input type="hidden" name="sort" value="{{.SortKey}}">
<input type="hidden" name="dir" value="{{.Direction}}">
{{if .PageSize}}<input type="hidden" name="size" value="{{.PageSize}}">{{end}}
</form>
{{if .Loading}}
<p class="loading">Cargando...</p>
{{else if .Error}}
<p class="error">{{.Error}}</p>
{{else}}
<table>
<thead>
<tr>
<th>#</th>
{{range .Columns}}<th{{if .Active}} class="active"{{end}}><a href="{{.URL}}">{{.Label}}</a>{{if .Active}} {{.Arrow}}{{end}}</th>
{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Position}}</td>
<td>{{.Streamer}}</td>
<td><img src="{{.RoleIcon}}" alt="{{.Role}}" width="24" height="24"></td>
<td>{{if .ProfileIcon}}<img src="{{.ProfileIcon}}" alt="" width="24" height="24"> {{end}}{{.Account}}</td>
<td><img src="{{.TierIcon}}" alt="{{.Tier}}" width="24" height="24"> {{.Elo}}</td>
<td>{{.TotalGames}}</td>
<td>{{.Wins}}</td>
<td>{{.Losses}}</td>
<td>{{.WinRate}}</td>
</tr>
{{end}}</tbody>
</table>
<nav>
{{if .PrevURL}}<a href="{{.PrevURL}}">&laquo; Anterior</a>{{end}}
<span>Página {{.Page | inc}} de {{.TotalPages}} ({{.Total}})</span>
{{if .NextURL}}<a href="{{.NextURL}}">Siguiente &raquo;</a>{{end}}
</nav>
{{end}}
</body>
</html>
`))
