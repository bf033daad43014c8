package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/workshop/internal/jobid"
	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
	"github.com/gorilla/mux"
	"github.com/qri-io/jsonschema"
)

const (
	maxBodyBytes      = 1 << 20
	maxJobIDAttempts  = 3
	errJobNotFound    = "Job not found"
	errMissingFields  = "Missing required fields"
	errNoFields       = "No fields to update"
	errInvalidRequest = "Invalid request"
)

type RepairsHandler struct {
	repairRepo  repository.RepairRepo
	historyRepo repository.HistoryRepo
	ids         *jobid.Generator
}

// NewRepairsHandler creates a new RepairsHandler with required dependencies.
func NewRepairsHandler(rr repository.RepairRepo, hr repository.HistoryRepo, ids *jobid.Generator) *RepairsHandler {
	return &RepairsHandler{repairRepo: rr, historyRepo: hr, ids: ids}
}

type createRepairRequest struct {
	CustomerName       string   `json:"customer_name"`
	CustomerPhone      string   `json:"customer_phone"`
	ItemType           string   `json:"item_type"`
	BrandModel         string   `json:"brand_model"`
	ProblemDescription string   `json:"problem_description"`
	ReceivedDate       string   `json:"received_date"`
	ExpectedCompletion string   `json:"expected_completion"`
	RepairCost         *float64 `json:"repair_cost"`
}

type createRepairResponse struct {
	Message string `json:"message"`
	JobID   string `json:"jobId"`
	ID      int64  `json:"id"`
}

type updateRepairRequest struct {
	RepairStatus       *string  `json:"repair_status"`
	RepairCost         *float64 `json:"repair_cost"`
	PaymentStatus      *string  `json:"payment_status"`
	TechnicianNotes    *string  `json:"technician_notes"`
	ExpectedCompletion *string  `json:"expected_completion"`
	DeliveryDate       *string  `json:"delivery_date"`
}

type checkStatusRequest struct {
	JobID string `json:"jobId"`
	Phone string `json:"phone"`
}

// readValidated reads the request body and checks it against rs. On failure
// it writes a 400 response and returns false.
func readValidated(w http.ResponseWriter, r *http.Request, rs *jsonschema.Schema) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errInvalidRequest, http.StatusBadRequest)
		return nil, false
	}
	msg, err := validateBody(r.Context(), rs, body)
	if err != nil {
		if !errors.Is(err, errInvalidJSON) {
			logger.Warn("schema validation failed", slog.String("path", r.URL.Path), slog.Any("err", err))
		}
		writeError(w, errInvalidRequest, http.StatusBadRequest)
		return nil, false
	}
	if msg != "" {
		writeError(w, errInvalidRequest+": "+msg, http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func changedBy(r *http.Request) string {
	if c, ok := UserFromContext(r.Context()); ok {
		return c.Username
	}
	return ""
}

// nonEmpty treats blank strings as absent.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (h *RepairsHandler) ListRepairs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.repairRepo.ListRepairs(r.Context(), models.RepairFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeStoreError(w, r, "list repairs", err)
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *RepairsHandler) GetRepair(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	job, err := h.repairRepo.GetRepairByJobID(r.Context(), jobID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, errJobNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, r, "get repair", err)
		return
	}
	writeJSON(w, job, http.StatusOK)
}

// CheckStatus is the public lookup used by customers. jobId wins over phone.
func (h *RepairsHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	body, ok := readValidated(w, r, checkStatusSchema)
	if !ok {
		return
	}

	var req checkStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errInvalidRequest, http.StatusBadRequest)
		return
	}
	jobID, phone := strings.TrimSpace(req.JobID), strings.TrimSpace(req.Phone)
	if jobID == "" && phone == "" {
		writeError(w, "Job ID or Phone number is required", http.StatusBadRequest)
		return
	}

	jobs, err := h.repairRepo.FindRepairs(r.Context(), jobID, phone)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, "No repair jobs found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, r, "check status", err)
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *RepairsHandler) CreateRepair(w http.ResponseWriter, r *http.Request) {
	body, ok := readValidated(w, r, createRepairSchema)
	if !ok {
		return
	}

	var req createRepairRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.ItemType == "" || req.ProblemDescription == "" {
		writeError(w, errMissingFields, http.StatusBadRequest)
		return
	}

	job := &models.RepairJob{
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		ItemType:           req.ItemType,
		BrandModel:         &req.BrandModel,
		ProblemDescription: req.ProblemDescription,
		ReceivedDate:       req.ReceivedDate,
		ExpectedCompletion: nonEmpty(&req.ExpectedCompletion),
	}
	if req.RepairCost != nil {
		job.RepairCost = *req.RepairCost
	}

	user := changedBy(r)
	var (
		id  int64
		err error
	)
	for attempt := 1; attempt <= maxJobIDAttempts; attempt++ {
		job.JobID = h.ids.Next()
		id, err = h.repairRepo.CreateRepair(r.Context(), job, user)
		if !errors.Is(err, repository.ErrDuplicateJobID) {
			break
		}
		logger.Warn("job id collision", slog.String("job_id", job.JobID), slog.Int("attempt", attempt))
	}
	if err != nil {
		writeStoreError(w, r, "create repair", err)
		return
	}

	logger.Info("repair job created", slog.String("job_id", job.JobID), slog.String("by", user))
	writeJSON(w, createRepairResponse{
		Message: "Repair job created successfully",
		JobID:   job.JobID,
		ID:      id,
	}, http.StatusCreated)
}

func (h *RepairsHandler) UpdateRepair(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	body, ok := readValidated(w, r, updateRepairSchema)
	if !ok {
		return
	}

	var req updateRepairRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errInvalidRequest, http.StatusBadRequest)
		return
	}

	u := models.RepairUpdate{
		RepairStatus:       nonEmpty(req.RepairStatus),
		RepairCost:         req.RepairCost,
		PaymentStatus:      nonEmpty(req.PaymentStatus),
		TechnicianNotes:    nonEmpty(req.TechnicianNotes),
		ExpectedCompletion: nonEmpty(req.ExpectedCompletion),
		DeliveryDate:       nonEmpty(req.DeliveryDate),
	}
	if u.IsEmpty() {
		writeError(w, errNoFields, http.StatusBadRequest)
		return
	}

	err := h.repairRepo.UpdateRepair(r.Context(), jobID, u, changedBy(r))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, errJobNotFound, http.StatusNotFound)
		return
	case errors.Is(err, repository.ErrNoFieldsProvided):
		writeError(w, errNoFields, http.StatusBadRequest)
		return
	case err != nil:
		writeStoreError(w, r, "update repair", err)
		return
	}

	writeJSON(w, messageResponse{Message: "Repair job updated successfully"}, http.StatusOK)
}

func (h *RepairsHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	entries, err := h.historyRepo.ListHistory(r.Context(), jobID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, errJobNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, r, "list history", err)
		return
	}
	writeJSON(w, entries, http.StatusOK)
}
