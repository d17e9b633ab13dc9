package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/middleware"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetAppointmentByID")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Patients see only their own appointments.
	if middleware.CurrentRole(c) != model.RoleAdmin {
		if userID, _ := middleware.CurrentUserID(c); appointment.UserID != userID {
			respondError(c, apperrors.ErrForbidden)
			return
		}
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetAllAppointments")

	pagination := constants.ParsePaginationParams(c)

	filter := repository.AppointmentFilter{
		Status: c.Query("status"),
	}
	if raw := c.Query("queue_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("invalid queue_id parameter", "", nil))
			return
		}
		filter.QueueID = uint(parsed)
	}

	// Non-admins are always scoped to their own appointments regardless of
	// the requested filter.
	if middleware.CurrentRole(c) == model.RoleAdmin {
		if raw := c.Query("user_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("invalid user_id parameter", "", nil))
				return
			}
			filter.UserID = uint(parsed)
		}
	} else {
		userID, _ := middleware.CurrentUserID(c)
		filter.UserID = userID
	}

	appointments, total, err := h.appointmentService.GetAll(ctx, pagination.Limit, pagination.Offset, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal(total, pagination.Limit), appointments))
}

// Book creates an appointment, assigning the next token number in the
// queue. Patients can only book for themselves.
func (h *AppointmentHandler) Book(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "BookAppointment")

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if middleware.CurrentRole(c) != model.RoleAdmin {
		userID, _ := middleware.CurrentUserID(c)
		if req.UserID != userID {
			respondError(c, apperrors.ErrForbidden)
			return
		}
	}

	appointment, err := h.appointmentService.Book(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateAppointmentStatus")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(ctx, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}
