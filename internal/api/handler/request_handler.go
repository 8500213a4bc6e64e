package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/domain/request"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/dto"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// RequestHandler implements the UserRequest/Comment HTTP surface of spec §6:
// CRUD, status transitions, and comments, all capability-gated by
// domain/authz through the Service.
type RequestHandler struct {
	svc *request.Service
}

func NewRequestHandler(svc *request.Service) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Create handles POST /requests.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request body"))
	}
	if req.GuildID == "" || req.Title == "" {
		return middleware.RespondError(c, apperrors.InvalidInput("guildId and title are required"))
	}

	r, err := h.svc.Create(c.Context(), actx, req.GuildID, req.Title, req.Description, req.GalleryID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: toRequestDetail(r)})
}

// Get handles GET /requests/:id.
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	r, err := h.svc.Get(c.Context(), actx, id)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: toRequestDetail(r)})
}

// List handles GET /requests.
func (h *RequestHandler) List(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	var q dto.ListRequestsQuery
	if err := c.QueryParser(&q); err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid query parameters"))
	}

	result, err := h.svc.List(c.Context(), actx, request.ListFilters{
		GuildID: q.GuildID,
		Status:  request.Status(q.Status),
		Page:    q.Page,
		Limit:   q.Limit,
	})
	if err != nil {
		return middleware.RespondError(c, err)
	}

	requests, _ := result.Data.([]*request.UserRequest)
	details := make([]dto.RequestDetail, 0, len(requests))
	for _, r := range requests {
		details = append(details, toRequestDetail(r))
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: fiber.Map{
		"page":  result.Page,
		"limit": result.Limit,
		"total": result.Total,
		"items": details,
	}})
}

// Cancel handles POST /requests/:id/cancel.
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	r, err := h.svc.Cancel(c.Context(), actx, id)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: toRequestDetail(r)})
}

// ChangeStatus handles POST /requests/:id/status.
func (h *RequestHandler) ChangeStatus(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	var body dto.ChangeRequestStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request body"))
	}

	r, err := h.svc.ChangeStatus(c.Context(), actx, id, authz.RequestAction(body.Action))
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: toRequestDetail(r)})
}

// Delete handles DELETE /requests/:id.
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	if err := h.svc.Delete(c.Context(), actx, id); err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "request deleted"})
}

// AddComment handles POST /requests/:id/comments.
func (h *RequestHandler) AddComment(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	var body dto.AddCommentRequest
	if err := c.BodyParser(&body); err != nil || body.Content == "" {
		return middleware.RespondError(c, apperrors.InvalidInput("content is required"))
	}

	comment, err := h.svc.AddComment(c.Context(), actx, id, body.Content)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: toCommentDetail(comment)})
}

// ListComments handles GET /requests/:id/comments.
func (h *RequestHandler) ListComments(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request id"))
	}

	comments, err := h.svc.ListComments(c.Context(), actx, id)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	details := make([]dto.CommentDetail, 0, len(comments))
	for _, cm := range comments {
		details = append(details, toCommentDetail(cm))
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: details})
}

func toRequestDetail(r *request.UserRequest) dto.RequestDetail {
	return dto.RequestDetail{
		ID:          r.ID,
		GuildID:     r.GuildID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		GalleryID:   r.GalleryID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ClosedAt:    r.ClosedAt,
		ClosedBy:    r.ClosedBy,
	}
}

func toCommentDetail(c *request.Comment) dto.CommentDetail {
	return dto.CommentDetail{
		ID:        c.ID,
		RequestID: c.RequestID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
