package service

import (
	"context"
	"strings"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type CommunityService struct {
	repo       CommunityStore
	memberRepo MemberStore
	users      UserStore
}

func NewCommunityService(repo CommunityStore, memberRepo MemberStore, users UserStore) *CommunityService {
	return &CommunityService{
		repo:       repo,
		memberRepo: memberRepo,
		users:      users,
	}
}

// CreateCommunity 创建者自动成为成员（同一事务）
func (s *CommunityService) CreateCommunity(ctx context.Context, userID uint64, name, desc string) (*model.Community, error) {
	name, desc = strings.TrimSpace(name), strings.TrimSpace(desc)
	if name == "" {
		return nil, pkg.ValidationError("community name required")
	}
	if desc == "" {
		return nil, pkg.ValidationError("community description required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
	}
	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}
	return s.GetCommunity(ctx, community.ID)
}

// JoinCommunity 重复加入不报错
func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID uint64) (*model.Community, error) {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Join(ctx, &model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        0,
	}); err != nil {
		return nil, err
	}
	return s.GetCommunity(ctx, communityID)
}

// AddMember 按用户名拉人进社区
func (s *CommunityService) AddMember(ctx context.Context, communityID uint64, username string) (*model.Community, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkg.ValidationError("username required")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.JoinCommunity(ctx, user.ID, communityID)
}

// LeaveCommunity 创建者不能退出，保证创建者始终是成员
func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID uint64) error {
	c, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if c.CreatorID == userID {
		return pkg.ForbiddenError("creator cannot leave the community")
	}
	return s.memberRepo.Leave(ctx, communityID, userID)
}

func (s *CommunityService) GetCommunity(ctx context.Context, communityID uint64) (*model.Community, error) {
	c, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	list := []model.Community{*c}
	if err = s.populate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListCommunities 全量返回，带创建者与成员用户名
func (s *CommunityService) ListCommunities(ctx context.Context) ([]model.Community, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.populate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *CommunityService) populate(ctx context.Context, list []model.Community) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(list))
	creatorIDs := make([]uint64, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
		creatorIDs = append(creatorIDs, c.CreatorID)
	}

	rows, err := s.memberRepo.Members(ctx, ids)
	if err != nil {
		return err
	}
	members := make(map[uint64][]model.UserBrief, len(list))
	for _, r := range rows {
		members[r.CommunityID] = append(members[r.CommunityID], model.UserBrief{ID: r.UserID, Username: r.Username})
	}

	creators, err := s.users.Briefs(ctx, creatorIDs)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Members = members[list[i].ID]
		if list[i].Members == nil {
			list[i].Members = []model.UserBrief{}
		}
		if b, ok := creators[list[i].CreatorID]; ok {
			list[i].Creator = &b
		}
	}
	return nil
}
