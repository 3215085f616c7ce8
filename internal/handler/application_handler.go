package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/service"
)

type ApplicationService interface {
	Submit(ctx context.Context, applicantID uint64, in service.ApplicationInput) (*model.Application, error)
	ListForApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error)
	ListAll(ctx context.Context) ([]model.Application, error)
	Transition(ctx context.Context, id uint64, status model.ApplicationStatus, reviewerID uint64) (*model.Application, error)
	Remove(ctx context.Context, id, callerID uint64, privileged bool) error
}

type ApplicationHandler struct {
	svc ApplicationService
}

type StatusReq struct {
	Status model.ApplicationStatus `json:"status"`
}

func NewApplicationHandler(svc ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	var req service.ApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	app, err := h.svc.Submit(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "application submitted", app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	list, err := h.svc.ListForApplicant(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "applications fetched", list)
}

// ListAll 审核员查看全部申请
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "applications fetched", list)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	reviewerID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	app, err := h.svc.Transition(c.Request.Context(), id, req.Status, reviewerID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "application status updated", app)
}

// Delete 申请人本人或审核员可删
func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	privileged := roleFromCtx(c) == model.RoleReviewer
	if err := h.svc.Remove(c.Request.Context(), id, userID, privileged); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "application deleted", nil)
}
