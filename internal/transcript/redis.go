package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// RedisSink appends every turn as a JSON list entry under transcript:<session>.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSink(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisSink, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.NewTranscriptError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
	)

	return NewRedisSinkFromClient(client, cfg.TTL, logger), nil
}

func NewRedisSinkFromClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{client: client, ttl: ttl, logger: logger}
}

func sessionKey(sessionID string) string {
	return constants.RedisConfig.KeyPrefix + sessionID
}

func encodeTurn(turn domain.Turn) ([]byte, error) {
	return json.Marshal(turn)
}

func (s *RedisSink) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	key := sessionKey(sessionID)
	payload, err := encodeTurn(turn)
	if err != nil {
		return errors.NewTranscriptError("marshal failed", "rpush", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Transcript append failed", zap.String("key", key), zap.Error(err))
		return errors.NewTranscriptError("append failed", "rpush", key, err)
	}
	return nil
}

// Turns reads back a stored session.
func (s *RedisSink) Turns(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	key := sessionKey(sessionID)
	values, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.NewTranscriptError("range failed", "lrange", key, err)
	}

	turns := make([]domain.Turn, 0, len(values))
	for _, v := range values {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, errors.NewTranscriptError("unmarshal failed", "lrange", key, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
