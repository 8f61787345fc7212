package constants

import "time"

var ExtractorConfig = struct {
	WindowSize          int
	MaxEditDistance     int
	MinCosineSimilarity float64
}{
	WindowSize:          2,   // tokens on each side of a trigger keyword
	MaxEditDistance:     3,   // Levenshtein cut-off for windowed matches
	MinCosineSimilarity: 0.5, // TF-IDF fallback threshold
}

var ClassifierConfig = struct {
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	MaxInputLength int
	FallbackLabel  string
}{
	CacheTTL:       30 * time.Minute,
	RequestTimeout: 15 * time.Second,
	MaxInputLength: 500,
	FallbackLabel:  "inform",
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
	RateLimitTimeout: 10 * time.Minute,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	KeyPrefix    string
}{
	ReadyTimeout: 5 * time.Second,
	KeyPrefix:    "transcript:",
}

var PostgresConfig = struct {
	ConnectTimeout  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}{
	ConnectTimeout:  5 * time.Second,
	MaxOpenConns:    5,
	MaxIdleConns:    2,
	ConnMaxLifetime: 5 * time.Minute,
}

var WebSocketConfig = struct {
	HandshakeTimeout     time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	MaxMessageBytes      int64
	SessionBurst         int
	LimiterIdleTTL       time.Duration
	LimiterSweepInterval time.Duration
}{
	HandshakeTimeout:     10 * time.Second,
	WriteTimeout:         5 * time.Second,
	IdleTimeout:          10 * time.Minute,
	MaxMessageBytes:      4096,
	SessionBurst:         3,
	LimiterIdleTTL:       10 * time.Minute,
	LimiterSweepInterval: time.Minute,
}

var ServerConfig = struct {
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	StatsInterval     time.Duration
}{
	ShutdownTimeout:   10 * time.Second,
	ReadHeaderTimeout: 5 * time.Second,
	StatsInterval:     time.Minute,
}
