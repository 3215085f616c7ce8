package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"FinAI_Community/internal/model"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

func (r *CommunityMemberRepository) Join(ctx context.Context, member *model.CommunityMember) error {
	// 幂等插入：若已存在 (community_id, user_id) 则不报错
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member).Error
	return pkgerrors.Wrap(err, "join community")
}

func (r *CommunityMemberRepository) Leave(ctx context.Context, communityID, userID uint64) error {
	return pkgerrors.Wrap(r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityMember{}).Error, "leave community")
}

// Members 批量取成员及用户名，按加入顺序
func (r *CommunityMemberRepository) Members(ctx context.Context, communityIDs []uint64) ([]model.MemberRow, error) {
	var rows []model.MemberRow
	if len(communityIDs) == 0 {
		return rows, nil
	}
	err := r.DB.WithContext(ctx).
		Table("community_members AS m").
		Select("m.community_id, m.user_id, u.username").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.community_id IN ?", communityIDs).
		Order("m.id ASC").
		Scan(&rows).Error
	return rows, pkgerrors.Wrap(err, "list members")
}
