package service

import (
	"context"
	"log/slog"
	"time"

	"FinAI_Community/internal/pkg"
)

type NewsService struct {
	scraper Scraper
	cache   NewsCache
	urls    []string
	ttl     time.Duration
}

func NewNewsService(scraper Scraper, cache NewsCache, urls []string, ttl time.Duration) *NewsService {
	return &NewsService{
		scraper: scraper,
		cache:   cache,
		urls:    urls,
		ttl:     ttl,
	}
}

// Latest 先查缓存，未命中再抓取；缓存故障只降级不报错
func (s *NewsService) Latest(ctx context.Context) ([]pkg.NewsItem, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			slog.WarnContext(ctx, "news cache read failed", "err", err)
		} else if ok {
			return items, nil
		}
	}

	items, err := s.scraper.Scrape(ctx, s.urls)
	if err != nil {
		return nil, pkg.InternalError(err)
	}
	if items == nil {
		items = []pkg.NewsItem{}
	}
	// 空结果不缓存，下次请求重新抓取
	if s.cache != nil && len(items) > 0 {
		if err = s.cache.Set(ctx, items, s.ttl); err != nil {
			slog.WarnContext(ctx, "news cache write failed", "err", err)
		}
	}
	return items, nil
}
