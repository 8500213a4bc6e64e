package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/domain/upload"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/dto"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

// UploadHandler implements the chunked-upload HTTP surface of spec §6:
// initiate/chunk/finalize/progress/cancel, grounded on the teacher's
// AdminChunkedUploadHandler but backed by domain/upload's in-process Store
// and FinalizePipeline instead of a Redis-status fallback pair.
type UploadHandler struct {
	store     *upload.Store
	finalize  *upload.FinalizePipeline
	cfg       *config.Config
	logger    *logger.Logger
}

func NewUploadHandler(store *upload.Store, finalize *upload.FinalizePipeline, cfg *config.Config, log *logger.Logger) *UploadHandler {
	return &UploadHandler{store: store, finalize: finalize, cfg: cfg, logger: log}
}

// Initiate handles POST /uploads/initiate.
func (h *UploadHandler) Initiate(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	var req dto.InitiateUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid request body"))
	}
	if req.FileName == "" || req.FileType == "" || req.GalleryName == "" || req.GuildID == "" || req.TotalSize <= 0 {
		return middleware.RespondError(c, apperrors.InvalidInput("fileName, fileType, galleryName, guildId and a positive totalSize are required"))
	}
	if err := authz.RequiresGuildMembership(actx, req.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	uploadID, err := h.store.Initiate(upload.InitiateRequest{
		FileName:    req.FileName,
		FileType:    req.FileType,
		GalleryName: req.GalleryName,
		GuildID:     req.GuildID,
		TotalSize:   req.TotalSize,
	})
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{
		Success: true,
		Data:    dto.InitiateUploadResponse{UploadID: uploadID},
	})
}

// Chunk handles POST /uploads/:uploadId/chunk. The chunk index travels as a
// form field alongside the multipart chunk body, mirroring the teacher's
// UploadChunk handler.
func (h *UploadHandler) Chunk(c *fiber.Ctx) error {
	uploadID := c.Params("uploadId")

	sess, err := h.store.GetMetadata(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	actx := middleware.AuthContextFromFiber(c)
	if err := authz.RequiresGuildMembership(actx, sess.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	idx, err := parseChunkIndex(c.FormValue("index"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("index must be a non-negative integer"))
	}

	fileHeader, err := c.FormFile("chunk")
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("chunk file part is required"))
	}
	if fileHeader.Size > h.cfg.Upload.MaxChunkSize {
		return middleware.RespondError(c, apperrors.PayloadTooLarge("chunk exceeds the configured maximum chunk size"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return middleware.RespondError(c, apperrors.InternalError("failed to read chunk", err))
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return middleware.RespondError(c, apperrors.InternalError("failed to read chunk", err))
	}

	if err := h.store.SaveChunk(uploadID, idx, buf); err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{
		Success: true,
		Data:    dto.UploadChunkResponse{Success: true, Index: idx},
	})
}

// Finalize handles POST /uploads/:uploadId/finalize, assembling and
// dispatching to ObjectStore synchronously (spec §4.4 does not require
// backgrounding; the client already polls GetProgress for phase updates).
func (h *UploadHandler) Finalize(c *fiber.Ctx) error {
	uploadID := c.Params("uploadId")

	sess, err := h.store.GetMetadata(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	actx := middleware.AuthContextFromFiber(c)
	if err := authz.RequiresGuildMembership(actx, sess.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	if err := h.finalize.Finalize(c.Context(), uploadID); err != nil {
		return middleware.RespondError(c, err)
	}

	progress, err := h.store.GetProgress(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{
		Success: true,
		Data: dto.FinalizeUploadResponse{
			Success:  progress.Status == upload.StatusCompleted,
			FilePath: sess.FileName,
		},
	})
}

// Progress handles GET /uploads/:uploadId.
func (h *UploadHandler) Progress(c *fiber.Ctx) error {
	uploadID := c.Params("uploadId")

	sess, err := h.store.GetMetadata(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	actx := middleware.AuthContextFromFiber(c)
	if err := authz.RequiresGuildMembership(actx, sess.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	progress, err := h.store.GetProgress(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	resp := dto.ProgressResponse{
		Status:         string(progress.Status),
		Phase:          string(progress.Phase),
		TotalBytes:     progress.Counts.TotalBytes,
		UploadedBytes:  progress.Counts.UploadedBytes,
		TotalFiles:     int(progress.Counts.TotalFiles),
		ProcessedFiles: int(progress.Counts.ProcessedFiles),
		Error:          progress.Error,
	}
	if progress.CompletedAt > 0 {
		ca := progress.CompletedAt
		resp.CompletedAt = &ca
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: resp})
}

// Cancel handles DELETE /uploads/:uploadId.
func (h *UploadHandler) Cancel(c *fiber.Ctx) error {
	uploadID := c.Params("uploadId")

	sess, err := h.store.GetMetadata(uploadID)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	actx := middleware.AuthContextFromFiber(c)
	if err := authz.RequiresGuildMembership(actx, sess.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	if err := h.store.Cleanup(uploadID); err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "upload cancelled"})
}

func parseChunkIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, apperrors.InvalidInput("index must be a non-negative integer")
	}
	return idx, nil
}
