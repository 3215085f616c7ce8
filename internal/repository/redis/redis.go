package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// Config 连接池与超时配置，零值字段使用默认值
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	IOTimeout    time.Duration
}

func (c Config) options() *redis.Options {
	opts := &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.IOTimeout,
		WriteTimeout: c.IOTimeout,
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}
	if opts.MinIdleConns < 0 {
		opts.MinIdleConns = 0
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 2 * time.Second
		opts.WriteTimeout = 2 * time.Second
	}
	return opts
}

// Init 建立客户端，ping 不通直接返回错误
func Init(ctx context.Context, cfg Config) error {
	opts := cfg.options()
	Client = redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
