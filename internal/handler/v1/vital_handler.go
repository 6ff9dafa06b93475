package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/vitals"
	"github.com/carelink/carelink-api/internal/service"
)

type VitalHandler struct {
	svc *service.VitalService
}

func NewVitalHandler(svc *service.VitalService) *VitalHandler {
	return &VitalHandler{svc: svc}
}

func (h *VitalHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/check-vitals", h.CheckVitals)
	r.POST("/create-alert", h.CreateAlert)
}

func (h *VitalHandler) CheckVitals(c *gin.Context) {
	records, err := h.svc.CheckVitals(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": records})
}

type createAlertRequest struct {
	PatientID string              `json:"patient_id" binding:"required"`
	VitalID   string              `json:"vital_id" binding:"required"`
	Alerts    []vitals.AlertEntry `json:"alerts" binding:"required"`
	Priority  string              `json:"priority"`
}

func (h *VitalHandler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if !bindJSON(c, &req) {
		return
	}
	patientID, ok := parseBodyUUID(c, "patient_id", req.PatientID)
	if !ok {
		return
	}
	vitalID, ok := parseBodyUUID(c, "vital_id", req.VitalID)
	if !ok {
		return
	}

	ns, err := h.svc.CreateAlertNotifications(c.Request.Context(), &service.CreateAlertCommand{
		PatientID: patientID,
		VitalID:   vitalID,
		Alerts:    req.Alerts,
		Priority:  domain.Priority(req.Priority),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": ns})
}
