package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/medication"
	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/patients", h.ListPatients)
	r.GET("/patient/:id", h.GetPatient)
	r.GET("/patient-summary", h.Summary)
	r.POST("/patients", h.CreatePatient)
	r.PUT("/patient/:id", h.UpdatePatient)
	r.DELETE("/patient/:id", h.DeactivatePatient)
}

func (h *PatientHandler) ListPatients(c *gin.Context) {
	patients, err := h.svc.ListPatients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *PatientHandler) Summary(c *gin.Context) {
	rows, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

type patientRequest struct {
	FirstName        string                    `json:"first_name"`
	LastName         string                    `json:"last_name"`
	PatientNumber    string                    `json:"patient_id"`
	DateOfBirth      *string                   `json:"date_of_birth"`
	Gender           string                    `json:"gender"`
	Phone            string                    `json:"phone"`
	Email            string                    `json:"email"`
	Address          string                    `json:"address"`
	EmergencyContact *patient.EmergencyContact `json:"emergency_contact"`
	MedicalNotes     string                    `json:"medical_notes"`
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req patientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.CreatePatientCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PatientNumber:    req.PatientNumber,
		Gender:           patient.Gender(req.Gender),
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalNotes:     req.MedicalNotes,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(medication.DateLayout, *req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"patient": p})
}

type updatePatientRequest struct {
	FirstName        *string                   `json:"first_name"`
	LastName         *string                   `json:"last_name"`
	DateOfBirth      *string                   `json:"date_of_birth"`
	Gender           *string                   `json:"gender"`
	Phone            *string                   `json:"phone"`
	Email            *string                   `json:"email"`
	Address          *string                   `json:"address"`
	EmergencyContact *patient.EmergencyContact `json:"emergency_contact"`
	MedicalNotes     *string                   `json:"medical_notes"`
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalNotes:     req.MedicalNotes,
	}
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		cmd.Gender = &g
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(medication.DateLayout, *req.DateOfBirth)
		if err != nil {
			respondError(c, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), id, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivatePatient(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deactivated successfully"})
}
