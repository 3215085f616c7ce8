package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"FinAI_Community/internal/model"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return pkgerrors.Wrap(r.DB.WithContext(ctx).Create(msg).Error, "create message")
}

// ListByCommunity 索引 (community_id, created_at)，同一时间点用 id 打破并列
func (r *MessageRepository) ListByCommunity(ctx context.Context, communityID uint64) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list messages")
	}
	return list, nil
}
