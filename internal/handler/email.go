package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/dto"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
)

// EmailHandler lets staff send templated notifications. Admin-gated by the
// policy table.
type EmailHandler struct {
	mailer service.Mailer
}

func NewEmailHandler(mailer service.Mailer) *EmailHandler {
	return &EmailHandler{mailer: mailer}
}

func (h *EmailHandler) Send(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "SendEmail")

	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.mailer.SendTemplate(ctx, req.To, req.Subject, req.Template, req.Data); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("email sent"))
}
