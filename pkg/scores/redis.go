package scores

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/tblock/pkg/errors"
)

// DefaultRedisKey is the sorted-set key used when none is configured.
const DefaultRedisKey = "tblock:scores"

// RedisStore keeps the leaderboard in a Redis sorted set. Entry bodies live
// in a hash next to it (key + ":entries").
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, opts *redis.Options, key string) (*RedisStore, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(opts)
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return &transientError{err}
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect redis %s", opts.Addr)
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) entriesKey() string { return s.key + ":entries" }

func (s *RedisStore) Add(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal entry")
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.entriesKey(), e.ID, body)
	pipe.ZAdd(ctx, s.key, redis.Z{Score: float64(e.Score), Member: e.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "add score")
	}
	return nil
}

// Top reads the n highest-ranked IDs, widens the range to every entry tied
// with the last one, and orders the result with the shared tie-break.
func (s *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	var ids []string
	if n <= 0 {
		all, err := s.client.ZRevRange(ctx, s.key, 0, -1).Result()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "read ranking")
		}
		ids = all
	} else {
		head, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(n-1)).Result()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "read ranking")
		}
		if len(head) == 0 {
			return nil, nil
		}
		floor := strconv.FormatFloat(head[len(head)-1].Score, 'f', -1, 64)
		ids, err = s.client.ZRevRangeByScore(ctx, s.key, &redis.ZRangeBy{Min: floor, Max: "+inf"}).Result()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "read ranking")
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	bodies, err := s.client.HMGet(ctx, s.entriesKey(), ids...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read entries")
	}
	es := make([]Entry, 0, len(bodies))
	for _, b := range bodies {
		str, ok := b.(string)
		if !ok {
			continue // ranked without a body: skip
		}
		var e Entry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse entry")
		}
		es = append(es, e)
	}
	sortEntries(es)
	return limit(es, n), nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key, s.entriesKey()).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "clear scores")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
