package mysql

import (
	"context"

	"gorm.io/gorm"

	"FinAI_Community/internal/model"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// List 待投递以及未超过重试上限的失败事件
func (r *OutboxRepository) List(ctx context.Context, batchSize, maxRetry int) ([]model.ApplicationOutbox, error) {
	var list []model.ApplicationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ApplicationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ApplicationOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
