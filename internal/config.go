package internal

import "time"

// Config holds the environment of the server and the read-only viewer.
type Config struct {
	Host      string `env:"HOST,default=localhost"`
	Port      int    `env:"PORT,default=8080"`
	DebugPort int    `env:"DEBUG_PORT,default=8081"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	BufferSize           int           `env:"BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	SearchLimit          int           `env:"SEARCH_LIMIT,default=50"`

	// FlaggedTerms is a comma-separated dictionary for the moderation
	// telemetry sink. Empty disables flagging entirely.
	FlaggedTerms string `env:"FLAGGED_TERMS"`

	WSMaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE,default=4096"`
	WSPongWait       time.Duration `env:"WS_PONG_WAIT,default=60s"`
	WSPingInterval   time.Duration `env:"WS_PING_INTERVAL,default=50s"`
	WSWriteWait      time.Duration `env:"WS_WRITE_WAIT,default=10s"`
}
