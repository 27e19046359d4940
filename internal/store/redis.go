package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chegg-game/chegg-server/internal/models"
)

// DefaultStreamName is the Redis list name for the action stream.
const DefaultStreamName = "chegg_actions"

// RedisStore implements Store on a Redis backend.
type RedisStore struct {
	client *redis.Client
	stream string
}

// ConnectRedis initializes a RedisStore from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//   - ACTION_STREAM (optional list name, default "chegg_actions")
func ConnectRedis() (*RedisStore, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisStore{
		client: client,
		stream: getEnv("ACTION_STREAM", DefaultStreamName),
	}, nil
}

func userKey(username string) string { return "user:" + username }
func matchKey(roomID string) string  { return "game:" + roomID }

// GetUser loads a profile by username. Returns ErrNotFound for unknown users.
func (s *RedisStore) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", userKey(username), err)
	}
	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", username, err)
	}
	return &profile, nil
}

// PutUser writes a profile under user:<username>.
func (s *RedisStore) PutUser(ctx context.Context, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", profile.Username, err)
	}
	if err := s.client.Set(ctx, userKey(profile.Username), data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", userKey(profile.Username), err)
	}
	return nil
}

// GetMatch loads a match record by room id. Returns ErrNotFound when absent.
func (s *RedisStore) GetMatch(ctx context.Context, roomID string) (*models.MatchRecord, error) {
	data, err := s.client.Get(ctx, matchKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", matchKey(roomID), err)
	}
	var record models.MatchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", roomID, err)
	}
	return &record, nil
}

// PutMatch writes a match record under game:<roomID>.
func (s *RedisStore) PutMatch(ctx context.Context, record *models.MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal match %s: %w", record.ID, err)
	}
	if err := s.client.Set(ctx, matchKey(record.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", matchKey(record.ID), err)
	}
	return nil
}

// PublishAction serializes the record and pushes it onto the action stream list.
func (s *RedisStore) PublishAction(ctx context.Context, record ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := s.client.RPush(ctx, s.stream, data).Err(); err != nil {
		return fmt.Errorf("rpush to %s: %w", s.stream, err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
