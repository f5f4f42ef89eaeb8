package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"aurabox/internal/model"
	"aurabox/internal/pkg/cache"
)

// CachedConversationRepo 带 Redis 读缓存的对话仓库
// 缓存只加速挂载时的 LoadLatest；任何写入都会推进代数并让缓存失效，缓存故障只记日志
// 读穿透只在代数未变时回填，晚于写入的旧读取不会把旧修订号写回缓存
type CachedConversationRepo struct {
	next  ConversationStore
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewCachedConversationRepo 创建带缓存的对话仓库
func NewCachedConversationRepo(next ConversationStore, redisCache *cache.RedisCache, ttl time.Duration) *CachedConversationRepo {
	if ttl <= 0 {
		ttl = cache.LatestConversationTTL
	}
	return &CachedConversationRepo{
		next:  next,
		cache: redisCache,
		ttl:   ttl,
	}
}

// LoadLatest 实现 ConversationStore
func (r *CachedConversationRepo) LoadLatest(ctx context.Context, userID string) (*model.Conversation, error) {
	key := cache.LatestConversationKey(userID)

	var cached model.Conversation
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !cache.IsMiss(err) {
		log.Warn().Err(err).Str("user_id", userID).Msg("conversation cache read failed")
	}

	genKey := cache.ConversationGenKey(userID)
	gen, genErr := r.cache.Generation(ctx, genKey)

	conv, err := r.next.LoadLatest(ctx, userID)
	if err != nil || conv == nil || genErr != nil {
		if genErr != nil {
			log.Warn().Err(genErr).Str("user_id", userID).Msg("conversation cache generation read failed")
		}
		return conv, err
	}

	stored, err := r.cache.SetIfGeneration(ctx, key, genKey, gen, conv, r.ttl)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("conversation cache write failed")
	} else if !stored {
		log.Debug().Str("user_id", userID).Msg("conversation changed during load, cache not filled")
	}
	return conv, nil
}

// Save 实现 ConversationStore
func (r *CachedConversationRepo) Save(ctx context.Context, conv *model.Conversation) error {
	err := r.next.Save(ctx, conv)

	if genErr := r.cache.Bump(ctx, cache.ConversationGenKey(conv.UserID)); genErr != nil {
		log.Warn().Err(genErr).Str("user_id", conv.UserID).Msg("conversation cache generation bump failed")
	}
	if delErr := r.cache.Delete(ctx, cache.LatestConversationKey(conv.UserID)); delErr != nil {
		log.Warn().Err(delErr).Str("user_id", conv.UserID).Msg("conversation cache invalidation failed")
	}
	return err
}
