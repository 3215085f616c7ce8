package service

import (
	"context"
	"strings"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type ApplicationService struct {
	repo              ApplicationStore
	users             UserStore
	allowRetransition bool
}

// ApplicationInput 数值字段用指针区分“未填”和 0
type ApplicationInput struct {
	BusinessName   string   `json:"businessName" validate:"max=128"`
	BusinessType   string   `json:"businessType" validate:"required,max=64"`
	BusinessStage  string   `json:"businessStage" validate:"required,max=64"`
	NumEmployees   *int     `json:"numEmployees" validate:"omitempty,min=0"`
	MonthlyIncome  *float64 `json:"monthlyIncome" validate:"required,min=0"`
	FundingPurpose string   `json:"fundingPurpose" validate:"required"`
	RequiredAmount *float64 `json:"requiredAmount" validate:"required,gt=0"`
	FundingType    string   `json:"fundingType" validate:"required,max=64"`
}

func NewApplicationService(repo ApplicationStore, users UserStore, allowRetransition bool) *ApplicationService {
	return &ApplicationService{
		repo:              repo,
		users:             users,
		allowRetransition: allowRetransition,
	}
}

// Submit 校验失败时不落库
func (s *ApplicationService) Submit(ctx context.Context, applicantID uint64, in ApplicationInput) (*model.Application, error) {
	in.BusinessType = strings.TrimSpace(in.BusinessType)
	in.BusinessStage = strings.TrimSpace(in.BusinessStage)
	in.FundingPurpose = strings.TrimSpace(in.FundingPurpose)
	in.FundingType = strings.TrimSpace(in.FundingType)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	app := &model.Application{
		ApplicantID:    applicantID,
		Status:         model.StatusPending,
		BusinessName:   strings.TrimSpace(in.BusinessName),
		BusinessType:   in.BusinessType,
		BusinessStage:  in.BusinessStage,
		NumEmployees:   in.NumEmployees,
		MonthlyIncome:  *in.MonthlyIncome,
		FundingPurpose: in.FundingPurpose,
		RequiredAmount: *in.RequiredAmount,
		FundingType:    in.FundingType,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error) {
	list, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return list, s.populate(ctx, list)
}

// ListAll 审核员视图
func (s *ApplicationService) ListAll(ctx context.Context) ([]model.Application, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return list, s.populate(ctx, list)
}

// Transition 审核员给出结论，已有结论的申请是否可改判由配置决定
func (s *ApplicationService) Transition(ctx context.Context, id uint64, status model.ApplicationStatus, reviewerID uint64) (*model.Application, error) {
	if !status.Terminal() {
		return nil, pkg.ValidationError("status must be one of [accepted rejected]")
	}
	app, err := s.repo.UpdateStatus(ctx, id, status, reviewerID, func(current *model.Application) error {
		if current.Status.Terminal() && !s.allowRetransition {
			return pkg.ConflictError("application already " + string(current.Status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	list := []model.Application{*app}
	if err = s.populate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Remove 申请人本人或审核员可以删除
func (s *ApplicationService) Remove(ctx context.Context, id, callerID uint64, privileged bool) error {
	if !privileged {
		app, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if app.ApplicantID != callerID {
			return pkg.ForbiddenError("not allowed to delete this application")
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *ApplicationService) populate(ctx context.Context, list []model.Application) error {
	if len(list) == 0 || s.users == nil {
		return nil
	}
	ids := make([]uint64, 0, len(list)*2)
	for _, a := range list {
		ids = append(ids, a.ApplicantID)
		if a.ReviewerID != nil {
			ids = append(ids, *a.ReviewerID)
		}
	}
	briefs, err := s.users.Briefs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range list {
		if b, ok := briefs[list[i].ApplicantID]; ok {
			list[i].Applicant = &b
		}
		if list[i].ReviewerID != nil {
			if b, ok := briefs[*list[i].ReviewerID]; ok {
				list[i].Reviewer = &b
			}
		}
	}
	return nil
}
