package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type communityFixture struct {
	users       *memUsers
	communities *memCommunities
	messages    *memMessages
	publisher   *recordingPublisher
	svc         *CommunityService
	msgSvc      *MessageService
}

func newCommunityFixture() *communityFixture {
	users := newMemUsers()
	f := &communityFixture{
		users:       users,
		communities: newMemCommunities(users),
		messages:    &memMessages{},
		publisher:   &recordingPublisher{},
	}
	f.svc = NewCommunityService(f.communities, f.communities, f.users)
	f.msgSvc = NewMessageService(f.messages, f.communities, f.users, f.publisher)
	return f
}

func (f *communityFixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Role: model.RoleMember, Verified: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func memberNames(c *model.Community) []string {
	out := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		out = append(out, m.Username)
	}
	return out
}

func TestCreateCommunityIncludesCreator(t *testing.T) {
	f := newCommunityFixture()
	a := f.user(t, "alice")

	c, err := f.svc.CreateCommunity(context.Background(), a.ID, "  Savers ", "weekly savings")
	require.NoError(t, err)
	assert.Equal(t, "Savers", c.Name)
	assert.Equal(t, []string{"alice"}, memberNames(c))
	require.NotNil(t, c.Creator)
	assert.Equal(t, "alice", c.Creator.Username)
}

func TestCreateCommunityValidation(t *testing.T) {
	f := newCommunityFixture()
	a := f.user(t, "alice")
	ctx := context.Background()

	_, err := f.svc.CreateCommunity(ctx, a.ID, "   ", "desc")
	assert.Equal(t, pkg.KindValidation, pkg.KindOf(err))
	_, err = f.svc.CreateCommunity(ctx, a.ID, "Savers", "")
	assert.Equal(t, pkg.KindValidation, pkg.KindOf(err))

	list, err := f.svc.ListCommunities(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bobby")
	c, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "d")
	require.NoError(t, err)

	_, err = f.svc.JoinCommunity(ctx, b.ID, c.ID)
	require.NoError(t, err)
	again, err := f.svc.JoinCommunity(ctx, b.ID, c.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bobby"}, memberNames(again))

	_, err = f.svc.JoinCommunity(ctx, b.ID, 404)
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
}

func TestAddMemberByUsername(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	f.user(t, "carol")
	c, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "d")
	require.NoError(t, err)

	got, err := f.svc.AddMember(ctx, c.ID, "carol")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, memberNames(got))

	_, err = f.svc.AddMember(ctx, c.ID, "ghost")
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
	_, err = f.svc.AddMember(ctx, 99, "carol")
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
}

func TestCreatorCannotLeave(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bobby")
	c, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "d")
	require.NoError(t, err)
	_, err = f.svc.JoinCommunity(ctx, b.ID, c.ID)
	require.NoError(t, err)

	err = f.svc.LeaveCommunity(ctx, a.ID, c.ID)
	assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))

	require.NoError(t, f.svc.LeaveCommunity(ctx, b.ID, c.ID))
	got, err := f.svc.GetCommunity(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, memberNames(got))
}

func TestPostMessageValidation(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	c, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "d")
	require.NoError(t, err)

	_, err = f.msgSvc.PostMessage(ctx, c.ID, a.ID, "   ")
	assert.Equal(t, pkg.KindValidation, pkg.KindOf(err))
	_, err = f.msgSvc.PostMessage(ctx, 999, a.ID, "hi")
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
	_, err = f.msgSvc.PostMessage(ctx, c.ID, 999, "hi")
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))

	assert.Empty(t, f.publisher.sent)
}

func TestMessagesOrderedAndScopedToRoom(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a := f.user(t, "alice")
	c1, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "d")
	require.NoError(t, err)
	c2, err := f.svc.CreateCommunity(ctx, a.ID, "Borrowers", "d")
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	ticks := []time.Time{base.Add(2 * time.Second), base, base.Add(time.Second)}
	i := 0
	f.msgSvc.now = func() time.Time {
		ts := ticks[i%len(ticks)]
		i++
		return ts
	}

	for _, content := range []string{"third", "first", "second"} {
		_, err = f.msgSvc.PostMessage(ctx, c1.ID, a.ID, content)
		require.NoError(t, err)
	}
	_, err = f.msgSvc.PostMessage(ctx, c2.ID, a.ID, "elsewhere")
	require.NoError(t, err)

	list, err := f.msgSvc.ListMessages(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for j := 1; j < len(list); j++ {
		assert.False(t, list[j].CreatedAt.Before(list[j-1].CreatedAt))
	}
	assert.Equal(t, []string{"first", "second", "third"}, []string{list[0].Content, list[1].Content, list[2].Content})

	other, err := f.msgSvc.ListMessages(ctx, c2.ID)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "elsewhere", other[0].Content)
}

// Savers：创建、加入、发消息、实时广播
func TestSaversScenario(t *testing.T) {
	f := newCommunityFixture()
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bobby")

	c, err := f.svc.CreateCommunity(ctx, a.ID, "Savers", "save together")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, memberNames(c))

	c, err = f.svc.JoinCommunity(ctx, b.ID, c.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bobby"}, memberNames(c))

	msg, err := f.msgSvc.PostMessage(ctx, c.ID, b.ID, "hello")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	list, err := f.msgSvc.ListMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Content)
	require.NotNil(t, list[0].Sender)
	assert.Equal(t, "bobby", list[0].Sender.Username)

	require.Len(t, f.publisher.sent, 1)
	assert.Equal(t, msg.ID, f.publisher.sent[0].ID)
	assert.Equal(t, c.ID, f.publisher.sent[0].CommunityID)
}
