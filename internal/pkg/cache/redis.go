package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"aurabox/internal/config"
)

// RedisCache Redis 缓存封装
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建 Redis 缓存客户端
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Set 设置缓存
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// setIfGenerationScript 代数未变时才写入：KEYS[1]=值 KEYS[2]=代数 ARGV=值,代数,过期毫秒
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// Generation 读取代数计数，不存在时为 0
func (c *RedisCache) Generation(ctx context.Context, genKey string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if IsMiss(err) {
		return 0, nil
	}
	return gen, err
}

// Bump 代数加一，使之前读到旧代数的写入全部作废
func (c *RedisCache) Bump(ctx context.Context, genKey string) error {
	return c.client.Incr(ctx, genKey).Err()
}

// SetIfGeneration 代数仍为 gen 时写入缓存，返回是否写入
func (c *RedisCache) SetIfGeneration(ctx context.Context, key, genKey string, gen int64, value any, expiration time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	n, err := setIfGenerationScript.Run(ctx, c.client, []string{key, genKey},
		data, strconv.FormatInt(gen, 10), expiration.Milliseconds()).Int()
	return n == 1, err
}

// Close 关闭连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// IsMiss 是否为缓存未命中
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// 常用 key 模式
const (
	LatestConversationKeyPrefix = "conv:latest:"
	LatestConversationTTL       = 30 * time.Minute
	ConversationGenKeyPrefix    = "conv:gen:"
)

// LatestConversationKey 生成用户最新对话的缓存 key
func LatestConversationKey(userID string) string {
	return LatestConversationKeyPrefix + userID
}

// ConversationGenKey 生成用户对话写入代数的 key
func ConversationGenKey(userID string) string {
	return ConversationGenKeyPrefix + userID
}

// Ping 检查连接是否可用
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
