package medical

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrack/patient-api/internal/handler"
	"github.com/medtrack/patient-api/internal/middleware"
	"github.com/medtrack/patient-api/internal/model"
)

type MedicalService interface {
	PriorAppointments(ctx context.Context, userID uuid.UUID) ([]*model.PriorAppointment, error)
	Conditions(ctx context.Context, userID uuid.UUID) ([]*model.Condition, error)
	Medications(ctx context.Context, userID uuid.UUID) ([]*model.HistoryMedication, error)
	AddRecord(ctx context.Context, userID uuid.UUID, req *model.AddMedicalRecordRequest) (*model.MedicalRecord, error)
	DeleteRecord(ctx context.Context, recordID uuid.UUID) error
}

type Handler struct {
	service MedicalService
}

func NewHandler(service MedicalService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	history := r.Group("/medical-history")
	{
		history.GET("/appointments", h.ListPriorAppointments)
		history.GET("/conditions", h.ListConditions)
		history.GET("/medications", h.ListMedications)
		history.POST("/records", h.AddRecord)
		history.DELETE("/records/:id", h.DeleteRecord)
	}
}

func (h *Handler) ListPriorAppointments(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: "unauthorized"})
		return
	}

	appointments, err := h.service.PriorAppointments(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) ListConditions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: "unauthorized"})
		return
	}

	conditions, err := h.service.Conditions(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conditions)
}

func (h *Handler) ListMedications(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: "unauthorized"})
		return
	}

	medications, err := h.service.Medications(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, medications)
}

func (h *Handler) AddRecord(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req model.AddMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "missing required parameters"})
		return
	}

	record, err := h.service.AddRecord(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	if _, ok := middleware.UserIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: "unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "invalid record ID"})
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), recordID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.MessageResponse{Message: "Record deleted"})
}
