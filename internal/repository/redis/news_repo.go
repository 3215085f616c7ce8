package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"FinAI_Community/internal/pkg"
)

const NewsItemsKey = "news:items"

type NewsCacheRepository struct {
	RDB *redis.Client
}

// Get 第二个返回值表示是否命中
func (r *NewsCacheRepository) Get(ctx context.Context) ([]pkg.NewsItem, bool, error) {
	raw, err := r.RDB.Get(ctx, NewsItemsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []pkg.NewsItem
	if err = json.Unmarshal(raw, &items); err != nil {
		// 脏数据直接当作未命中
		_ = r.RDB.Del(ctx, NewsItemsKey).Err()
		return nil, false, nil
	}
	return items, true, nil
}

func (r *NewsCacheRepository) Set(ctx context.Context, items []pkg.NewsItem, ttl time.Duration) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, NewsItemsKey, raw, ttl).Err()
}
