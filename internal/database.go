package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Ranked columns are NULL for streamers without a solo queue entry.
const selectPlayerStats = `
	SELECT streamer, summoner_name, tag, encrypted_summoner_id, rol,
	       profile_icon_id, summoner_level,
	       league_id, queue_type, tier, rank, league_points, wins, losses
	FROM player_stats
	ORDER BY id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// PostgresSource reads the streamer list from a player_stats table. It only
// ever reads; the table is maintained elsewhere.
type PostgresSource struct {
	DB     *sql.DB
	logger *Logger
}

func postgresDSN(cfg *Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)
}

func NewPostgresSource(ctx context.Context, cfg *Config, logger *Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	logger.Info("postgres_connected").
		Component("database").
		Operation("connect").
		Meta("host", cfg.PostgresHost).
		Meta("database", cfg.PostgresDB).
		Log()

	return &PostgresSource{DB: db, logger: logger}, nil
}

func scanPlayerRow(row rowScanner) (PlayerStatsPayload, error) {
	var (
		p            PlayerStatsPayload
		leagueID     sql.NullString
		queueType    sql.NullString
		tier         sql.NullString
		rank         sql.NullString
		leaguePoints sql.NullInt64
		wins         sql.NullInt64
		losses       sql.NullInt64
	)

	err := row.Scan(
		&p.Streamer,
		&p.SummonerName,
		&p.Tag,
		&p.EncryptedSummonerID,
		&p.Rol,
		&p.ProfileIconID,
		&p.SummonerLevel,
		&leagueID,
		&queueType,
		&tier,
		&rank,
		&leaguePoints,
		&wins,
		&losses,
	)
	if err != nil {
		return p, err
	}

	if tier.Valid {
		p.RankedStats = &RankedStatsPayload{
			LeagueID:     leagueID.String,
			QueueType:    queueType.String,
			Tier:         tier.String,
			Rank:         rank.String,
			LeaguePoints: int(leaguePoints.Int64),
			Wins:         int(wins.Int64),
			Losses:       int(losses.Int64),
		}
	}
	return p, nil
}

func (ps *PostgresSource) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	start := time.Now()

	rows, err := ps.DB.QueryContext(ctx, selectPlayerStats)
	if err != nil {
		return nil, errors.Wrap(err, "query player_stats")
	}
	defer rows.Close()

	var payload []PlayerStatsPayload
	for rows.Next() {
		p, err := scanPlayerRow(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan player_stats row")
		}
		payload = append(payload, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate player_stats")
	}

	records := NormalizePlayers(payload)

	ps.logger.Info("stats_fetched").
		Component("database").
		Operation("fetch_players").
		Duration(time.Since(start)).
		Meta("records", len(records)).
		Log()

	return records, nil
}

func (ps *PostgresSource) Close() error {
	if ps.DB == nil {
		return nil
	}
	return ps.DB.Close()
}
