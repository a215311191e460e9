package internal

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	maxPageSize     = 100
	pageWaitTimeout = 2 * time.Second
)

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, status int) APIError {
	return APIError{Message: message, Status: status}
}

func writeError(w http.ResponseWriter, err error, logger *Logger, r *http.Request) {
	var apiErr APIError
	if e, ok := err.(APIError); ok {
		apiErr = e
	} else {
		apiErr = NewAPIError("Internal server error", http.StatusInternalServerError)
	}

	requestID := GetRequestID(r.Context())

	entry := logger.Error("api_error").
		Component("http").
		Operation("write_error").
		HTTP(r.Method, r.URL.Path, apiErr.Status).
		Request(r.UserAgent(), r.RemoteAddr, requestID).
		Err(err).
		ErrorCode(strconv.Itoa(apiErr.Status))
	if started := GetStartTime(r.Context()); !started.IsZero() {
		entry.Duration(time.Since(started))
	}
	entry.Log()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     apiErr.Message,
		"status":    apiErr.Status,
		"timestamp": time.Now().Unix(),
		"requestId": requestID,
	})
}

func writeJSON(w http.ResponseWriter, data interface{}, logger *Logger, r *http.Request) {
	writeJSONStatus(w, http.StatusOK, data, logger, r)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}, logger *Logger, r *http.Request) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("json_encode_failed").
			Component("http").
			Operation("write_json").
			Request("", "", GetRequestID(r.Context())).
			Err(err).
			Log()
		writeError(w, NewAPIError("Failed to encode response", http.StatusInternalServerError), logger, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func withRateLimit(rateLimiter RateLimiterInterface, logger *Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			key := clientKey(r)

			allowed, err := rateLimiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("rate_limiter_error").
					Component("rate_limiter").
					Operation("check_limit").
					Request("", "", requestID).
					Err(err).
					Meta("key", key).
					Log()
				writeError(w, NewAPIError("Rate limiter error", http.StatusInternalServerError), logger, r)
				return
			}

			if !allowed {
				logger.Warn("rate_limit_exceeded").
					Component("rate_limiter").
					Operation("check_limit").
					Request("", "", requestID).
					Meta("key", key).
					Log()
				writeError(w, NewAPIError("Rate limit exceeded", http.StatusTooManyRequests), logger, r)
				return
			}

			next(w, r)
		}
	}
}

// viewStateFromRequest rebuilds the table state from query parameters.
// toggle applies a header click on top of the carried sort.
func viewStateFromRequest(r *http.Request, defaultSize int) ViewState {
	q := r.URL.Query()

	size := defaultSize
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		size = min(n, maxPageSize)
	}

	state := NewViewState(size)
	state.Search = q.Get("q")
	if s := q.Get("sort"); s != "" {
		state.SortKey = ParseSortKey(s)
	}
	state.Direction = ParseDirection(q.Get("dir"))

	page, _ := strconv.Atoi(q.Get("page"))
	state = state.WithPage(page)

	if toggle := q.Get("toggle"); toggle != "" {
		state = state.WithSort(ParseSortKey(toggle))
	}
	return state
}

// LeaderboardRow is one display row: the record plus its formatted cells.
type LeaderboardRow struct {
	Position      int    `json:"position"`
	Streamer      string `json:"streamer"`
	Role          Role   `json:"rol"`
	RoleIcon      string `json:"rolIcon"`
	Account       string `json:"account"`
	ProfileIcon   string `json:"profileIcon,omitempty"`
	SummonerLevel int    `json:"summonerLevel"`
	Ranked        bool   `json:"ranked"`
	Tier          string `json:"tier"`
	Division      string `json:"division,omitempty"`
	LeaguePoints  int    `json:"leaguePoints"`
	TierIcon      string `json:"tierIcon"`
	Elo           string `json:"elo"`
	Score         int    `json:"score"`
	TotalGames    int    `json:"totalGames"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	WinRate       string `json:"winRate"`
}

func FormatAccount(r PlayerRecord) string {
	if r.AccountTag == "" {
		return r.AccountName
	}
	return r.AccountName + "#" + r.AccountTag
}

// FormatElo renders "GOLD II (40 LP)", or "Unranked".
func FormatElo(r PlayerRecord) string {
	if !r.IsRanked() {
		return "Unranked"
	}
	rs := r.RankedStats
	if div := rs.Division.String(); div != "" {
		return fmt.Sprintf("%s %s (%d LP)", rs.Tier, div, rs.LeaguePoints)
	}
	return fmt.Sprintf("%s (%d LP)", rs.Tier, rs.LeaguePoints)
}

// FormatWinRate renders two decimals, or "0%" when there is nothing to rate.
func FormatWinRate(r PlayerRecord) string {
	if !r.IsRanked() || r.Wins()+r.Losses() == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", r.WinRate()*100)
}

func newLeaderboardRow(e RankedEntry, icons *IconResolver) LeaderboardRow {
	r := e.Record
	row := LeaderboardRow{
		Position:      e.Position,
		Streamer:      r.StreamerName,
		Role:          r.Role,
		RoleIcon:      RoleIcon(r.Role),
		Account:       FormatAccount(r),
		ProfileIcon:   icons.ProfileIconURL(r.ProfileIconID),
		SummonerLevel: r.SummonerLevel,
		Ranked:        r.IsRanked(),
		Tier:          r.Tier().String(),
		TierIcon:      TierIcon(r.Tier()),
		Elo:           FormatElo(r),
		Score:         e.Score,
		TotalGames:    r.TotalGames,
		Wins:          r.Wins(),
		Losses:        r.Losses(),
		WinRate:       FormatWinRate(r),
	}
	if r.IsRanked() {
		row.Division = r.RankedStats.Division.String()
		row.LeaguePoints = r.RankedStats.LeaguePoints
	}
	return row
}

func newLeaderboardRows(page Page, icons *IconResolver) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(page.Entries))
	for _, e := range page.Entries {
		rows = append(rows, newLeaderboardRow(e, icons))
	}
	return rows
}

type LeaderboardResponse struct {
	Status     string           `json:"status"`
	Message    string           `json:"message,omitempty"`
	Rows       []LeaderboardRow `json:"rows"`
	Search     string           `json:"search"`
	Sort       SortKey          `json:"sort"`
	Direction  Direction        `json:"dir"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
}

// LeaderboardAPIHandler serves the ranked page as JSON. It answers 503 until
// the load has settled successfully.
func LeaderboardAPIHandler(loader *Loader, icons *IconResolver, pageSize int, logger *Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := viewStateFromRequest(r, pageSize)
		result := loader.Result()

		switch result.Status {
		case StatusNotLoaded:
			writeJSONStatus(w, http.StatusServiceUnavailable, LeaderboardResponse{
				Status: result.Status.String(),
				Rows:   []LeaderboardRow{},
			}, logger, r)
			return
		case StatusFailed:
			writeJSONStatus(w, http.StatusServiceUnavailable, LeaderboardResponse{
				Status:  result.Status.String(),
				Message: result.Message,
				Rows:    []LeaderboardRow{},
			}, logger, r)
			return
		}

		page := state.Compute(result.Records)

		logger.Debug("leaderboard_served").
			Component("leaderboard").
			Operation("api").
			Request("", "", GetRequestID(r.Context())).
			Meta("search", state.Search).
			Meta("sort", string(state.SortKey)).
			Meta("dir", string(state.Direction)).
			Meta("page", page.Page).
			Log()

		writeJSON(w, LeaderboardResponse{
			Status:     result.Status.String(),
			Rows:       newLeaderboardRows(page, icons),
			Search:     state.Search,
			Sort:       state.SortKey,
			Direction:  state.Direction,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
			Total:      page.Total,
		}, logger, r)
	}
}

func HealthHandler(loader *Loader, cache *CacheManager, natsClient *NATSClient, logger *Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("health_check").
			Component("health").
			Operation("check").
			Log()

		result := loader.Result()
		writeJSON(w, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
			"load": map[string]interface{}{
				"status":  result.Status.String(),
				"records": len(result.Records),
			},
			"services": map[string]bool{
				"cache": cache.Enabled(),
				"nats":  natsClient.Enabled(),
			},
		}, logger, r)
	}
}

func MetricsHandler(metrics *MetricsCollector, profiler *Profiler, logger *Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetMetrics()
		snapshot["runtime"] = profiler.RuntimeStats()
		writeJSON(w, snapshot, logger, r)
	}
}
