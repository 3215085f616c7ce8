package mysql

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ConflictError("username or email already exists")
	}
	return pkgerrors.Wrap(err, "create user")
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return pkgerrors.Wrap(r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password", hash).Error, "update password")
}

// SetVerified 管理员审核用户
func (r *UserRepository) SetVerified(ctx context.Context, id uint64) (*model.User, error) {
	tx := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("verified", true)
	if tx.Error != nil {
		return nil, pkgerrors.Wrap(tx.Error, "verify user")
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var list []model.User
	q := r.DB.WithContext(ctx).Order("id ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	return list, nil
}

// Delete 级联移除社区成员关系；消息与申请保留原 ID 引用
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.CommunityMember{}).Error; err != nil {
			return pkgerrors.Wrap(err, "detach memberships")
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return pkg.NotFoundError("user not found")
		}
		return nil
	})
}

// Briefs 批量取用户名，已删除的用户不会出现在结果里
func (r *UserRepository) Briefs(ctx context.Context, ids []uint64) (map[uint64]model.UserBrief, error) {
	out := make(map[uint64]model.UserBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.UserBrief
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "load user briefs")
	}
	for _, b := range rows {
		out[b.ID] = b
	}
	return out, nil
}
