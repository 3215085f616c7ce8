package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

// 内存版存储，行为对齐 mysql/redis 仓储

type memUsers struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uint64]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Username == u.Username {
			return pkg.ConflictError("username already exists")
		}
	}
	m.seq++
	u.ID = m.seq
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Username == username {
			cp := *x
			return &cp, nil
		}
	}
	return nil, pkg.NotFoundError("user not found")
}

func (m *memUsers) FindByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x, ok := m.users[id]; ok {
		cp := *x
		return &cp, nil
	}
	return nil, pkg.NotFoundError("user not found")
}

func (m *memUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	x, ok := m.users[id]
	if !ok {
		return pkg.NotFoundError("user not found")
	}
	x.Password = hash
	return nil
}

func (m *memUsers) SetVerified(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	x, ok := m.users[id]
	if !ok {
		return nil, pkg.NotFoundError("user not found")
	}
	x.Verified = true
	cp := *x
	return &cp, nil
}

func (m *memUsers) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, x := range m.users {
		if role == "" || x.Role == role {
			out = append(out, *x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return pkg.NotFoundError("user not found")
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) Briefs(_ context.Context, ids []uint64) (map[uint64]model.UserBrief, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint64]model.UserBrief, len(ids))
	for _, id := range ids {
		if x, ok := m.users[id]; ok {
			out[id] = model.UserBrief{ID: x.ID, Username: x.Username}
		}
	}
	return out, nil
}

type memSessions struct {
	mu      sync.Mutex
	access  map[uint64]string
	refresh map[uint64]string
}

func newMemSessions() *memSessions {
	return &memSessions{access: map[uint64]string{}, refresh: map[uint64]string{}}
}

func (m *memSessions) Save(_ context.Context, userID uint64, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access[userID] = access
	m.refresh[userID] = refresh
	return nil
}

func (m *memSessions) AccessToken(_ context.Context, userID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.access[userID]
	if !ok {
		return "", pkg.NotFoundError("token not found")
	}
	return t, nil
}

func (m *memSessions) RefreshToken(_ context.Context, userID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.refresh[userID]
	if !ok {
		return "", pkg.NotFoundError("token not found")
	}
	return t, nil
}

func (m *memSessions) Extend(context.Context, uint64) error { return nil }

func (m *memSessions) Delete(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.access, userID)
	delete(m.refresh, userID)
	return nil
}

// memCommunities 同时实现 CommunityStore 和 MemberStore，成员表是唯一事实来源
type memCommunities struct {
	mu          sync.Mutex
	seq         uint64
	communities map[uint64]*model.Community
	members     []model.CommunityMember
	users       *memUsers
}

func newMemCommunities(users *memUsers) *memCommunities {
	return &memCommunities{communities: map[uint64]*model.Community{}, users: users}
}

func (m *memCommunities) Create(_ context.Context, c *model.Community) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c.ID = m.seq
	cp := *c
	m.communities[c.ID] = &cp
	m.members = append(m.members, model.CommunityMember{CommunityID: c.ID, UserID: c.CreatorID, Role: 1})
	return nil
}

func (m *memCommunities) FindByID(_ context.Context, id uint64) (*model.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.communities[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, pkg.NotFoundError("community not found")
}

func (m *memCommunities) List(context.Context) ([]model.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Community, 0, len(m.communities))
	for _, c := range m.communities {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memCommunities) ListByUser(_ context.Context, userID uint64) ([]model.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Community
	for _, mb := range m.members {
		if mb.UserID == userID {
			out = append(out, *m.communities[mb.CommunityID])
		}
	}
	return out, nil
}

func (m *memCommunities) Join(_ context.Context, member *model.CommunityMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mb := range m.members {
		if mb.CommunityID == member.CommunityID && mb.UserID == member.UserID {
			return nil
		}
	}
	m.members = append(m.members, *member)
	return nil
}

func (m *memCommunities) Leave(_ context.Context, communityID, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mb := range m.members {
		if mb.CommunityID == communityID && mb.UserID == userID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCommunities) Members(ctx context.Context, ids []uint64) ([]model.MemberRow, error) {
	m.mu.Lock()
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var rows []model.MemberRow
	var userIDs []uint64
	for _, mb := range m.members {
		if want[mb.CommunityID] {
			rows = append(rows, model.MemberRow{CommunityID: mb.CommunityID, UserID: mb.UserID})
			userIDs = append(userIDs, mb.UserID)
		}
	}
	m.mu.Unlock()

	briefs, _ := m.users.Briefs(ctx, userIDs)
	for i := range rows {
		rows[i].Username = briefs[rows[i].UserID].Username
	}
	return rows, nil
}

type memMessages struct {
	mu   sync.Mutex
	msgs []model.Message
}

func (m *memMessages) Create(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) ListByCommunity(_ context.Context, communityID uint64) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Message, 0)
	for _, x := range m.msgs {
		if x.CommunityID == communityID {
			out = append(out, x)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type memApplications struct {
	mu     sync.Mutex
	seq    uint64
	apps   map[uint64]*model.Application
	events []string
}

func newMemApplications() *memApplications {
	return &memApplications{apps: map[uint64]*model.Application{}}
}

func (m *memApplications) Create(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	app.ID = m.seq
	cp := *app
	m.apps[app.ID] = &cp
	m.events = append(m.events, model.EventSubmitted)
	return nil
}

func (m *memApplications) FindByID(_ context.Context, id uint64) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, pkg.NotFoundError("application not found")
}

func (m *memApplications) ListByApplicant(_ context.Context, applicantID uint64) ([]model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Application, 0)
	for _, a := range m.apps {
		if a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memApplications) ListAll(context.Context) ([]model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Application, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memApplications) UpdateStatus(_ context.Context, id uint64, status model.ApplicationStatus, reviewerID uint64,
	guard func(current *model.Application) error) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, pkg.NotFoundError("application not found")
	}
	if guard != nil {
		if err := guard(a); err != nil {
			return nil, err
		}
	}
	a.Status = status
	rid := reviewerID
	a.ReviewerID = &rid
	a.UpdatedAt = time.Now()
	m.events = append(m.events, model.EventStatusChanged)
	cp := *a
	return &cp, nil
}

func (m *memApplications) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[id]; !ok {
		return pkg.NotFoundError("application not found")
	}
	delete(m.apps, id)
	m.events = append(m.events, model.EventDeleted)
	return nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []*model.Message
}

func (p *recordingPublisher) Publish(msg *model.Message) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return 1
}
