package mysql

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

// Create 申请与 submitted 事件同一事务
func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return pkgerrors.Wrap(err, "create application")
		}
		return insertOutbox(tx, model.EventSubmitted, app)
	})
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint64) (*model.Application, error) {
	var app model.Application
	if err := r.DB.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, notFoundOr(err, "application")
	}
	return &app, nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error) {
	var list []model.Application
	if err := r.DB.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list applications")
	}
	return list, nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]model.Application, error) {
	var list []model.Application
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list applications")
	}
	return list, nil
}

// UpdateStatus 行锁读取当前状态交给 guard 判断，再写状态和事件
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint64, status model.ApplicationStatus, reviewerID uint64,
	guard func(current *model.Application) error) (*model.Application, error) {
	var app model.Application
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, id).Error; err != nil {
			return notFoundOr(err, "application")
		}
		if guard != nil {
			if err := guard(&app); err != nil {
				return err
			}
		}
		if err := tx.Model(&app).Updates(map[string]any{
			"status":      status,
			"reviewer_id": reviewerID,
		}).Error; err != nil {
			return pkgerrors.Wrap(err, "update application status")
		}
		app.Status = status
		app.ReviewerID = &reviewerID
		return insertOutbox(tx, model.EventStatusChanged, &app)
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete 硬删除，重复删除返回未找到
func (r *ApplicationRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Application{}, id)
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "delete application")
		}
		if res.RowsAffected == 0 {
			return pkg.NotFoundError("application not found")
		}
		return insertOutbox(tx, model.EventDeleted, &model.Application{ID: id})
	})
}

// 插入outbox事件表
func insertOutbox(tx *gorm.DB, event string, app *model.Application) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":     time.Now().UTC().Format(time.RFC3339Nano),
		"application_id": app.ID,
		"applicant_id":   app.ApplicantID,
		"status":         app.Status,
		"reviewer_id":    app.ReviewerID,
	})
	ob := &model.ApplicationOutbox{
		EventType:     event,
		ApplicationID: app.ID,
		Payload:       string(payload),
		Status:        model.OutboxPending,
	}
	return pkgerrors.Wrap(tx.Create(ob).Error, "insert outbox")
}
