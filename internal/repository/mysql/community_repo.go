package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"FinAI_Community/internal/model"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 社区和创建者成员关系在同一事务内写入
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mRepo := &CommunityMemberRepository{DB: tx}

		if err := tx.Create(c).Error; err != nil {
			return pkgerrors.Wrap(err, "create community")
		}

		return mRepo.Join(ctx, &model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        1,
		})
	})
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	if err := r.DB.WithContext(ctx).First(&community, id).Error; err != nil {
		return nil, notFoundOr(err, "community")
	}
	return &community, nil
}

// List 全量扫描，社区数量小时可接受
func (r *CommunityRepository) List(ctx context.Context) ([]model.Community, error) {
	var list []model.Community
	if err := r.DB.WithContext(ctx).Order("id DESC").Find(&list).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list communities")
	}
	return list, nil
}

// ListByUser 用户所在社区，从成员表推导
func (r *CommunityRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Community, error) {
	var list []model.Community
	if err := r.DB.WithContext(ctx).
		Joins("JOIN community_members m ON m.community_id = communities.id").
		Where("m.user_id = ?", userID).
		Order("communities.id ASC").
		Find(&list).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list user communities")
	}
	return list, nil
}
