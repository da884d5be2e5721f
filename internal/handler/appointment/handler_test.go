package appointment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/patient-api/internal/handler/appointment"
	"github.com/medtrack/patient-api/internal/middleware"
	"github.com/medtrack/patient-api/internal/model"
	apperrors "github.com/medtrack/patient-api/pkg/errors"
)

type fakeScheduling struct {
	bookErr       error
	rescheduleErr error
	cancelErr     error
	upcoming      *model.UpcomingAppointment
	slots         []model.AvailableTime
	hospitals     []*model.Hospital
	appointmentID uuid.UUID

	bookedTime string
}

func (f *fakeScheduling) Hospitals(ctx context.Context) ([]*model.Hospital, error) {
	return f.hospitals, nil
}

func (f *fakeScheduling) AvailableSlots(ctx context.Context, hospitalID uuid.UUID, date string) ([]model.AvailableTime, error) {
	return f.slots, nil
}

func (f *fakeScheduling) Book(ctx context.Context, userID, hospitalID uuid.UUID, appointmentTime string) (uuid.UUID, error) {
	if f.bookErr != nil {
		return uuid.Nil, f.bookErr
	}
	f.bookedTime = appointmentTime
	return uuid.New(), nil
}

func (f *fakeScheduling) Reschedule(ctx context.Context, appointmentID uuid.UUID, newTime string) error {
	return f.rescheduleErr
}

func (f *fakeScheduling) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	return f.cancelErr
}

func (f *fakeScheduling) Upcoming(ctx context.Context, userID uuid.UUID) (*model.UpcomingAppointment, error) {
	return f.upcoming, nil
}

func (f *fakeScheduling) FindAppointmentID(ctx context.Context, userID uuid.UUID, appointmentTime string, hospitalID uuid.UUID) (uuid.UUID, error) {
	if f.appointmentID == uuid.Nil {
		return uuid.Nil, apperrors.NewNotFound("appointment", nil)
	}
	return f.appointmentID, nil
}

func setupRouter(svc appointment.SchedulingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
	r := gin.New()
	appointment.NewHandler(svc).RegisterRoutes(r.Group("/"))
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBookSuccess(t *testing.T) {
	svc := &fakeScheduling{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/book", gin.H{
		"user_id":          uuid.New().String(),
		"hospital_id":      uuid.New().String(),
		"appointment_time": "2026-03-02 10:00:00",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Appointment successfully booked", decode(t, w)["message"])
	assert.Equal(t, "2026-03-02 10:00:00", svc.bookedTime)
}

func TestBookMissingParameters(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodPost, "/book", gin.H{
		"user_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing required parameters", decode(t, w)["error"])
}

func TestBookSlotConflict(t *testing.T) {
	svc := &fakeScheduling{
		bookErr: apperrors.NewConflict("slot is already booked", nil),
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/book", gin.H{
		"user_id":          uuid.New().String(),
		"hospital_id":      uuid.New().String(),
		"appointment_time": "2026-03-02 10:00:00",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot is already booked", decode(t, w)["error"])
}

func TestBookPastTime(t *testing.T) {
	svc := &fakeScheduling{
		bookErr: apperrors.NewUnprocessable("appointment time must be in the future", nil),
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/book", gin.H{
		"user_id":          uuid.New().String(),
		"hospital_id":      uuid.New().String(),
		"appointment_time": "2020-01-01 10:00:00",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBookInternalErrorIsOpaque(t *testing.T) {
	svc := &fakeScheduling{bookErr: errors.New("connection refused")}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/book", gin.H{
		"user_id":          uuid.New().String(),
		"hospital_id":      uuid.New().String(),
		"appointment_time": "2026-03-02 10:00:00",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRescheduleSuccess(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodPost, "/reschedule", gin.H{
		"appointment_id": uuid.New().String(),
		"new_time":       "2026-03-02 11:00:00",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Appointment successfully rescheduled", decode(t, w)["message"])
}

func TestRescheduleNotScheduled(t *testing.T) {
	svc := &fakeScheduling{
		rescheduleErr: apperrors.NewNotFound("scheduled appointment", nil),
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/reschedule", gin.H{
		"appointment_id": uuid.New().String(),
		"new_time":       "2026-03-02 11:00:00",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelSuccess(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodPost, "/cancel", gin.H{
		"appointment_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Appointment successfully cancelled", decode(t, w)["message"])
}

func TestCancelAlreadyCancelled(t *testing.T) {
	svc := &fakeScheduling{
		cancelErr: apperrors.NewNotFound("scheduled appointment", nil),
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/cancel", gin.H{
		"appointment_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpcomingNone(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodGet, "/upcoming?user_id="+uuid.New().String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No upcoming appointments", decode(t, w)["message"])
}

func TestUpcomingFound(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc := &fakeScheduling{upcoming: &model.UpcomingAppointment{
		AppointmentTime: at,
		Status:          model.AppointmentStatusScheduled,
		HospitalName:    "General Hospital",
		Address:         "1 Main St",
	}}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/upcoming?user_id="+uuid.New().String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "2026-03-02 10:00:00", body["appointment_time"])
	assert.Equal(t, "General Hospital", body["hospital_name"])
}

func TestUpcomingInvalidUserID(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodGet, "/upcoming?user_id=not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailableTimesEmptyIsOK(t *testing.T) {
	svc := &fakeScheduling{slots: []model.AvailableTime{}}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/available-times?hospital_id="+uuid.New().String()+"&date=2026-03-02", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAvailableTimesRequiresDate(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodGet, "/available-times?hospital_id="+uuid.New().String(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAppointmentID(t *testing.T) {
	id := uuid.New()
	svc := &fakeScheduling{appointmentID: id}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet,
		"/get-appointment-id?user_id="+uuid.New().String()+
			"&hospital_id="+uuid.New().String()+
			"&appointment_time=2026-03-02+10:00:00", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decode(t, w)["appointment_id"])
}

func TestGetAppointmentIDNotFound(t *testing.T) {
	r := setupRouter(&fakeScheduling{})

	w := doJSON(r, http.MethodGet,
		"/get-appointment-id?user_id="+uuid.New().String()+
			"&hospital_id="+uuid.New().String()+
			"&appointment_time=2026-03-02+10:00:00", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListHospitals(t *testing.T) {
	svc := &fakeScheduling{hospitals: []*model.Hospital{
		{ID: uuid.New(), Name: "General Hospital", Address: "1 Main St"},
	}}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/hospitals", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var hospitals []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hospitals))
	require.Len(t, hospitals, 1)
	assert.Equal(t, "General Hospital", hospitals[0]["name"])
}
