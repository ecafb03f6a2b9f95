package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "shortlink:"

// Entry 跳转所需的最小信息
type Entry struct {
	LinkID      uint   `json:"id"`
	OriginalURL string `json:"original_url"`
}

// LinkCache 以完整短链接地址为键缓存跳转目标。
// client 为 nil 时所有操作都是空操作。
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewLinkCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *LinkCache {
	return &LinkCache{client: client, ttl: ttl, logger: logger.Named("link_cache")}
}

// Enabled 是否配置了 Redis
func (c *LinkCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get 读取缓存，未命中或出错都返回 false
func (c *LinkCache) Get(ctx context.Context, shortened string) (Entry, bool) {
	var entry Entry
	if !c.Enabled() {
		return entry, false
	}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, keyPrefix+shortened).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnf("读取缓存失败: %v", err)
		}
		return entry, false
	}
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		c.logger.Warnf("缓存数据损坏 %s: %v", shortened, err)
		return entry, false
	}
	return entry, true
}

// Set 写入缓存，失败只记日志
func (c *LinkCache) Set(ctx context.Context, shortened string, entry Entry) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, keyPrefix+shortened, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("写入缓存失败: %v", err)
	}
}

// Delete 使缓存失效
func (c *LinkCache) Delete(ctx context.Context, shortened string) {
	if !c.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.client.Del(ctx, keyPrefix+shortened).Err(); err != nil {
		c.logger.Warnf("删除缓存失败: %v", err)
	}
}
