package service

import (
	"context"
	"time"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

// 以下接口由 repository/mysql、repository/redis 实现，测试中用内存实现替换

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	SetVerified(ctx context.Context, id uint64) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
	Briefs(ctx context.Context, ids []uint64) (map[uint64]model.UserBrief, error)
}

// SessionStore token 不存在时返回 NotFound 类错误
type SessionStore interface {
	Save(ctx context.Context, userID uint64, access, refresh string) error
	AccessToken(ctx context.Context, userID uint64) (string, error)
	RefreshToken(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64) error
}

type CommunityStore interface {
	Create(ctx context.Context, c *model.Community) error
	FindByID(ctx context.Context, id uint64) (*model.Community, error)
	List(ctx context.Context) ([]model.Community, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Community, error)
}

type MemberStore interface {
	Join(ctx context.Context, member *model.CommunityMember) error
	Leave(ctx context.Context, communityID, userID uint64) error
	Members(ctx context.Context, communityIDs []uint64) ([]model.MemberRow, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByCommunity(ctx context.Context, communityID uint64) ([]model.Message, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uint64) (*model.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error)
	ListAll(ctx context.Context) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ApplicationStatus, reviewerID uint64,
		guard func(current *model.Application) error) (*model.Application, error)
	Delete(ctx context.Context, id uint64) error
}

type OutboxStore interface {
	List(ctx context.Context, batchSize, maxRetry int) ([]model.ApplicationOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

type NewsCache interface {
	Get(ctx context.Context) ([]pkg.NewsItem, bool, error)
	Set(ctx context.Context, items []pkg.NewsItem, ttl time.Duration) error
}

// Publisher 实时广播，消息落库后调用
type Publisher interface {
	Publish(msg *model.Message) int
}

// Scraper 新闻抓取能力
type Scraper interface {
	Scrape(ctx context.Context, urls []string) ([]pkg.NewsItem, error)
}

// Answerer 大模型问答能力
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Notifier 用户审核通过后的通知
type Notifier interface {
	NotifyVerified(ctx context.Context, user *model.User) error
}
