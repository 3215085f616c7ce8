package service

import (
	"context"
	"strings"
	"time"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type MessageService struct {
	repo        MessageStore
	communities CommunityStore
	users       UserStore
	publisher   Publisher
	now         func() time.Time
}

func NewMessageService(repo MessageStore, communities CommunityStore, users UserStore, publisher Publisher) *MessageService {
	return &MessageService{
		repo:        repo,
		communities: communities,
		users:       users,
		publisher:   publisher,
		now:         time.Now,
	}
}

// PostMessage 先落库再广播；不校验发送者是否为社区成员
func (s *MessageService) PostMessage(ctx context.Context, communityID, senderID uint64, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkg.ValidationError("message content required")
	}
	// 写入时检查引用完整性
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:          pkg.NewID(),
		CommunityID: communityID,
		SenderID:    senderID,
		Content:     content,
		CreatedAt:   s.now(),
	}
	if err = s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.Sender = &model.UserBrief{ID: sender.ID, Username: sender.Username}

	if s.publisher != nil {
		s.publisher.Publish(msg)
	}
	return msg, nil
}

// ListMessages 按时间升序全量返回
func (s *MessageService) ListMessages(ctx context.Context, communityID uint64) ([]model.Message, error) {
	list, err := s.repo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(list))
	seen := make(map[uint64]struct{}, len(list))
	for _, m := range list {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			ids = append(ids, m.SenderID)
		}
	}
	senders, err := s.users.Briefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if b, ok := senders[list[i].SenderID]; ok {
			list[i].Sender = &b
		}
	}
	return list, nil
}
