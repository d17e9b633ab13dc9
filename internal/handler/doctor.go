package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/dto"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
)

type DoctorHandler struct {
	doctorService *service.DoctorService
}

func NewDoctorHandler(doctorService *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

func (h *DoctorHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetDoctorByID")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	doctor, err := h.doctorService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetAllDoctors")

	pagination := constants.ParsePaginationParams(c)

	doctors, total, err := h.doctorService.GetAll(ctx, pagination.Limit, pagination.Offset, pagination.Search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal(total, pagination.Limit), doctors))
}

func (h *DoctorHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "CreateDoctor")

	var req dto.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	doctor, err := h.doctorService.Create(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateDoctor")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	doctor, err := h.doctorService.Update(ctx, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "DeleteDoctor")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.doctorService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("doctor deleted"))
}
