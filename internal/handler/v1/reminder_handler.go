package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/medication"
	"github.com/carelink/carelink-api/internal/service"
)

type ReminderHandler struct {
	svc *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

func (h *ReminderHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/today-reminders", h.TodayReminders)
	r.GET("/upcoming-reminders", h.UpcomingReminders)
	r.POST("/mark-taken", h.MarkTaken)
	r.POST("/create-reminder", h.CreateReminder)
	r.POST("/generate-schedule", h.GenerateSchedule)
	r.PUT("/schedule/:id", h.UpdateSchedule)
}

func (h *ReminderHandler) TodayReminders(c *gin.Context) {
	reminders, err := h.svc.TodayReminders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

func (h *ReminderHandler) UpcomingReminders(c *gin.Context) {
	reminders, err := h.svc.UpcomingReminders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

type markTakenRequest struct {
	ScheduleID string  `json:"schedule_id" binding:"required"`
	Notes      *string `json:"notes"`
}

func (h *ReminderHandler) MarkTaken(c *gin.Context) {
	var req markTakenRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := parseBodyUUID(c, "schedule_id", req.ScheduleID)
	if !ok {
		return
	}

	row, err := h.svc.MarkTaken(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": row})
}

type createReminderRequest struct {
	PatientID      string `json:"patient_id" binding:"required"`
	MedicationName string `json:"medication_name" binding:"required"`
	ScheduledDate  string `json:"scheduled_date" binding:"required"`
	ScheduledTime  string `json:"scheduled_time" binding:"required"`
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req createReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	patientID, ok := parseBodyUUID(c, "patient_id", req.PatientID)
	if !ok {
		return
	}

	n, err := h.svc.CreateReminder(c.Request.Context(), &service.CreateReminderCommand{
		PatientID:      patientID,
		MedicationName: req.MedicationName,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

type generateScheduleRequest struct {
	MedicationID   string   `json:"medication_id" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required"`
	EndDate        string   `json:"end_date" binding:"required"`
	Frequency      string   `json:"frequency"`
	ScheduledTimes []string `json:"scheduled_times"`
}

func (h *ReminderHandler) GenerateSchedule(c *gin.Context) {
	var req generateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	medicationID, ok := parseBodyUUID(c, "medication_id", req.MedicationID)
	if !ok {
		return
	}

	rows, err := h.svc.GenerateSchedule(c.Request.Context(), &medication.GenerateScheduleCommand{
		MedicationID:   medicationID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Frequency:      req.Frequency,
		ScheduledTimes: req.ScheduledTimes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedules": rows})
}

type updateScheduleRequest struct {
	ScheduledDate *string `json:"scheduled_date"`
	ScheduledTime *string `json:"scheduled_time"`
	Taken         *bool   `json:"taken"`
	Notes         *string `json:"notes"`
}

func (h *ReminderHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	row, err := h.svc.UpdateSchedule(c.Request.Context(), id, &medication.UpdateScheduleCommand{
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Taken:         req.Taken,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": row})
}
