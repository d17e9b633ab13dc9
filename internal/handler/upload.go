package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/middleware"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Presign mints a short-lived signed upload URL for the caller.
func (h *UploadHandler) Presign(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "PresignUpload")

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	var req dto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.uploadService.Presign(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Receive accepts a presigned upload. The signature in the query is the
// grant; no session is required.
func (h *UploadHandler) Receive(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ReceiveUpload")

	key := strings.TrimPrefix(c.Param("key"), "/")
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		respondError(c, apperrors.ErrInvalidToken)
		return
	}

	if err := h.uploadService.Verify(key, expires, c.Query("signature")); err != nil {
		respondError(c, err)
		return
	}

	size, err := h.uploadService.Store(ctx, key, c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "size": size})
}
