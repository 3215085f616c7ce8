package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"FinAI_Community/internal/pkg"
)

var (
	ErrTokenNotFound    = pkg.NotFoundError("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
	UserTokenExpire   = 30 * time.Minute
	UserRefreshExpire = 24 * time.Hour
)

// SessionRepository 单点登录：每个用户只保留最新的一对 token
type SessionRepository struct {
	RDB *redis.Client
}

func tokenKey(userID uint64) string   { return fmt.Sprintf("%s:%d", UserTokenPrefix, userID) }
func refreshKey(userID uint64) string { return fmt.Sprintf("%s:%d", UserRefreshPrefix, userID) }

func (r *SessionRepository) Save(ctx context.Context, userID uint64, access, refresh string) error {
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(userID), access, UserTokenExpire)
		p.Set(ctx, refreshKey(userID), refresh, UserRefreshExpire)
		return nil
	})
	if err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) AccessToken(ctx context.Context, userID uint64) (string, error) {
	return r.get(ctx, tokenKey(userID))
}

func (r *SessionRepository) RefreshToken(ctx context.Context, userID uint64) (string, error) {
	return r.get(ctx, refreshKey(userID))
}

func (r *SessionRepository) get(ctx context.Context, key string) (string, error) {
	token, err := r.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 校验通过后顺延 access 的过期时间
func (r *SessionRepository) Extend(ctx context.Context, userID uint64) error {
	if err := r.RDB.Expire(ctx, tokenKey(userID), UserTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, tokenKey(userID), refreshKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
