package internal

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

const loadEventSubject = "soloq.leaderboard.loaded"

type LoadEvent struct {
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

func newLoadEvent(result LoadResult, duration time.Duration) LoadEvent {
	event := LoadEvent{
		Status:     result.Status.String(),
		Records:    len(result.Records),
		DurationMs: duration.Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}
	if result.Err != nil {
		event.Error = result.Err.Error()
	}
	return event
}

// NATSClient announces load outcomes. Without NATS_URL it has no connection
// and publishing is a no-op.
type NATSClient struct {
	Conn *nats.Conn
}

func NewNATSClient(cfg *Config) (*NATSClient, error) {
	if cfg.NATSUrl == "" {
		return &NATSClient{}, nil
	}

	conn, err := nats.Connect(cfg.NATSUrl,
		nats.Name(cfg.NATSClientID),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect to NATS")
	}
	return &NATSClient{Conn: conn}, nil
}

func (nc *NATSClient) Enabled() bool {
	return nc.Conn != nil
}

func (nc *NATSClient) Publish(subject string, data []byte) error {
	if nc.Conn == nil {
		return nil
	}
	return nc.Conn.Publish(subject, data)
}

func (nc *NATSClient) PublishLoadEvent(event LoadEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return nc.Publish(loadEventSubject, data)
}

func (nc *NATSClient) Close() {
	if nc.Conn != nil {
		nc.Conn.Close()
	}
}
