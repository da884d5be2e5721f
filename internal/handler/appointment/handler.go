package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrack/patient-api/internal/handler"
	"github.com/medtrack/patient-api/internal/model"
)

// SchedulingService is the slice of the scheduling engine the HTTP layer
// needs.
type SchedulingService interface {
	Hospitals(ctx context.Context) ([]*model.Hospital, error)
	AvailableSlots(ctx context.Context, hospitalID uuid.UUID, date string) ([]model.AvailableTime, error)
	Book(ctx context.Context, userID, hospitalID uuid.UUID, appointmentTime string) (uuid.UUID, error)
	Reschedule(ctx context.Context, appointmentID uuid.UUID, newTime string) error
	Cancel(ctx context.Context, appointmentID uuid.UUID) error
	Upcoming(ctx context.Context, userID uuid.UUID) (*model.UpcomingAppointment, error)
	FindAppointmentID(ctx context.Context, userID uuid.UUID, appointmentTime string, hospitalID uuid.UUID) (uuid.UUID, error)
}

type Handler struct {
	service SchedulingService
}

func NewHandler(service SchedulingService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/hospitals", h.ListHospitals)
	r.GET("/upcoming", h.GetUpcomingAppointment)
	r.GET("/available-times", h.GetAvailableTimes)
	r.GET("/get-appointment-id", h.GetAppointmentID)
	r.POST("/book", h.BookAppointment)
	r.POST("/reschedule", h.RescheduleAppointment)
	r.POST("/cancel", h.CancelAppointment)
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.service.Hospitals(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

func (h *Handler) GetUpcomingAppointment(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "invalid user ID"})
		return
	}

	upcoming, err := h.service.Upcoming(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if upcoming == nil {
		c.JSON(http.StatusOK, handler.MessageResponse{Message: "No upcoming appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_time": upcoming.AppointmentTime.Format(model.DateTimeWireFormat),
		"status":           upcoming.Status,
		"hospital_name":    upcoming.HospitalName,
		"address":          upcoming.Address,
	})
}

func (h *Handler) GetAvailableTimes(c *gin.Context) {
	hospitalID, err := uuid.Parse(c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "invalid hospital ID"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "date is required"})
		return
	}

	// An empty list is a valid answer: a day with no catalog entries and a
	// fully booked day look the same to the caller.
	slots, err := h.service.AvailableSlots(c.Request.Context(), hospitalID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "missing required parameters"})
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	hospitalID, _ := uuid.Parse(req.HospitalID)

	if _, err := h.service.Book(c.Request.Context(), userID, hospitalID, req.AppointmentTime); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.MessageResponse{Message: "Appointment successfully booked"})
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "missing required parameters"})
		return
	}

	appointmentID, _ := uuid.Parse(req.AppointmentID)

	if err := h.service.Reschedule(c.Request.Context(), appointmentID, req.NewTime); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.MessageResponse{Message: "Appointment successfully rescheduled"})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "missing required parameters"})
		return
	}

	appointmentID, _ := uuid.Parse(req.AppointmentID)

	if err := h.service.Cancel(c.Request.Context(), appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.MessageResponse{Message: "Appointment successfully cancelled"})
}

func (h *Handler) GetAppointmentID(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "invalid user ID"})
		return
	}
	hospitalID, err := uuid.Parse(c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "invalid hospital ID"})
		return
	}
	appointmentTime := c.Query("appointment_time")
	if appointmentTime == "" {
		c.JSON(http.StatusBadRequest, handler.ErrorResponse{Error: "appointment_time is required"})
		return
	}

	id, err := h.service.FindAppointmentID(c.Request.Context(), userID, appointmentTime, hospitalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment_id": id})
}
