package cache

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultGeocodeTTL = 30 * 24 * time.Hour

// RedisGeocodeCache stores address -> "lat,lng" strings in Redis with a TTL.
type RedisGeocodeCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeocodeTTL
	}
	return &RedisGeocodeCache{rdb: rdb, prefix: "geocode:", ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return rdb, nil
}

// Fetch cached coordinates for the given addresses.
func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("redis geocode cache: client is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = c.prefix + a
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.GeoPoint, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		p, err := parsePoint(s)
		if err != nil {
			return nil, fmt.Errorf("get redis geocode cache: key %q: %w", keys[i], err)
		}
		out[uniq[i]] = p
	}

	return out, nil
}

// Store address -> coordinate mappings with the cache TTL.
func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if c.rdb == nil {
		return errors.New("redis geocode cache: client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	for addr, p := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert redis geocode cache: empty address key")
		}
		pipe.Set(ctx, c.prefix+addr, formatPoint(p), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis geocode cache: exec: %w", err)
	}

	return nil
}

func formatPoint(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func parsePoint(s string) (domain.GeoPoint, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("malformed value %q", s)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lng: %w", err)
	}
	return domain.GeoPoint{Lat: lat, Lng: lng}, nil
}
