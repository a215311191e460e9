package internal

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlayerStatsPayload is one element of the upstream JSON array.
type PlayerStatsPayload struct {
	Streamer            string              `json:"streamer"`
	SummonerName        string              `json:"summonerName"`
	Tag                 string              `json:"tag"`
	EncryptedSummonerID string              `json:"encryptedSummonerId"`
	Rol                 string              `json:"rol"`
	ProfileIconID       int                 `json:"profileIconId"`
	SummonerLevel       int                 `json:"summonerLevel"`
	RankedStats         *RankedStatsPayload `json:"rankedStats"`
}

type RankedStatsPayload struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type RankedStats struct {
	LeagueID     string   `json:"leagueId"`
	QueueType    string   `json:"queueType"`
	Tier         Tier     `json:"-"`
	Division     Division `json:"-"`
	LeaguePoints int      `json:"leaguePoints"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
}

type PlayerRecord struct {
	StreamerName        string       `json:"streamer"`
	AccountName         string       `json:"summonerName"`
	AccountTag          string       `json:"tag"`
	EncryptedSummonerID string       `json:"encryptedSummonerId"`
	Role                Role         `json:"rol"`
	ProfileIconID       int          `json:"profileIconId"`
	SummonerLevel       int          `json:"summonerLevel"`
	RankedStats         *RankedStats `json:"rankedStats"`
	TotalGames          int          `json:"totalGames"`
}

// IsRanked reports whether the record carries ranked stats. A record whose
// tier did not parse is treated as unranked as well.
func (p PlayerRecord) IsRanked() bool {
	return p.RankedStats != nil && p.RankedStats.Tier != TierUnranked
}

func (p PlayerRecord) Tier() Tier {
	if p.RankedStats == nil {
		return TierUnranked
	}
	return p.RankedStats.Tier
}

func (p PlayerRecord) Wins() int {
	if p.RankedStats == nil {
		return 0
	}
	return p.RankedStats.Wins
}

func (p PlayerRecord) Losses() int {
	if p.RankedStats == nil {
		return 0
	}
	return p.RankedStats.Losses
}

// Score is the packed ELO value of the record, using its own league points.
func (p PlayerRecord) Score() int {
	if p.RankedStats == nil {
		return Score(TierUnranked, DivisionUnknown, 0)
	}
	return Score(p.RankedStats.Tier, p.RankedStats.Division, p.RankedStats.LeaguePoints)
}

// WinRate is a fraction in [0, 1]; records without games report 0.
func (p PlayerRecord) WinRate() float64 {
	games := p.Wins() + p.Losses()
	if !p.IsRanked() || games == 0 {
		return 0
	}
	return float64(p.Wins()) / float64(games)
}

func (p PlayerStatsPayload) toRecord() PlayerRecord {
	record := PlayerRecord{
		StreamerName:        p.Streamer,
		AccountName:         p.SummonerName,
		AccountTag:          p.Tag,
		EncryptedSummonerID: p.EncryptedSummonerID,
		Role:                ParseRole(p.Rol),
		ProfileIconID:       p.ProfileIconID,
		SummonerLevel:       p.SummonerLevel,
	}
	if p.RankedStats != nil {
		record.RankedStats = &RankedStats{
			LeagueID:     p.RankedStats.LeagueID,
			QueueType:    p.RankedStats.QueueType,
			Tier:         ParseTier(p.RankedStats.Tier),
			Division:     ParseDivision(p.RankedStats.Rank),
			LeaguePoints: p.RankedStats.LeaguePoints,
			Wins:         p.RankedStats.Wins,
			Losses:       p.RankedStats.Losses,
		}
		record.TotalGames = p.RankedStats.Wins + p.RankedStats.Losses
	}
	return record
}

// NormalizePlayers converts the upstream payload into records, in order.
func NormalizePlayers(payload []PlayerStatsPayload) []PlayerRecord {
	records := make([]PlayerRecord, 0, len(payload))
	for _, p := range payload {
		records = append(records, p.toRecord())
	}
	return records
}

// DecodePlayers parses the upstream JSON array.
func DecodePlayers(data []byte) ([]PlayerRecord, error) {
	var payload []PlayerStatsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return NormalizePlayers(payload), nil
}
