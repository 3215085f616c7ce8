package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/model"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, userID uint64, name, desc string) (*model.Community, error)
	JoinCommunity(ctx context.Context, userID, communityID uint64) (*model.Community, error)
	AddMember(ctx context.Context, communityID uint64, username string) (*model.Community, error)
	LeaveCommunity(ctx context.Context, userID, communityID uint64) error
	GetCommunity(ctx context.Context, communityID uint64) (*model.Community, error)
	ListCommunities(ctx context.Context) ([]model.Community, error)
}

type CommunityHandler struct {
	svc CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddMemberReq struct {
	Username string `json:"username"`
}

func NewCommunityHandler(svc CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	community, err := h.svc.CreateCommunity(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "community created", community)
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}

	community, err := h.svc.JoinCommunity(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "joined community", community)
}

// AddMember 按用户名添加成员
func (h *CommunityHandler) AddMember(c *gin.Context) {
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AddMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	community, err := h.svc.AddMember(c.Request.Context(), communityID, req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user added to community", community)
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.LeaveCommunity(c.Request.Context(), userID, communityID); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "left community", nil)
}

func (h *CommunityHandler) Get(c *gin.Context) {
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	community, err := h.svc.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "community fetched", community)
}

func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.svc.ListCommunities(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "communities fetched", list)
}
