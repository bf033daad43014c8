package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/garnizeh/workshop/api"
	"github.com/garnizeh/workshop/internal/auth"
	"github.com/garnizeh/workshop/internal/jobid"
	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository/mock"
	"github.com/gorilla/mux"
)

func sampleJob(id, status string) models.RepairJob {
	return models.RepairJob{
		JobID: id, CustomerName: "A", CustomerPhone: "555", ItemType: "Phone",
		ProblemDescription: "cracked screen", ReceivedDate: "2024-01-02",
		RepairStatus: status, PaymentStatus: models.PaymentPending,
	}
}

func doRequest(t *testing.T, h http.HandlerFunc, method, target, body string, vars map[string]string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	w := httptest.NewRecorder()
	h(w, req)
	res := w.Result()
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()
	return res, data
}

func errorOf(t *testing.T, data []byte) string {
	t.Helper()
	var er struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &er); err != nil {
		t.Fatalf("decode error body %s: %v", string(data), err)
	}
	return er.Error
}

func TestCreateRepair(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		prepare    func(m *mock.Mocks)
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "InvalidJSON",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
		},
		{
			name:       "WrongFieldType",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x","repair_cost":"free"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NegativeCost",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x","repair_cost":-1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingFields",
			body:       `{"customer_name":"A","customer_phone":"555"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields",
		},
		{
			name:       "BlankRequiredField",
			body:       `{"customer_name":"","customer_phone":"555","item_type":"Phone","problem_description":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields",
		},
		{
			name:       "Success",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"cracked screen"}`,
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "RetriesOnCollision",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x"}`,
			prepare:    func(m *mock.Mocks) { m.RepairRepo.DuplicateFor = 2 },
			wantStatus: http.StatusCreated,
			wantCalls:  3,
		},
		{
			name:       "GivesUpAfterRetries",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x"}`,
			prepare:    func(m *mock.Mocks) { m.RepairRepo.DuplicateFor = 5 },
			wantStatus: http.StatusInternalServerError,
			wantError:  "Database error",
			wantCalls:  3,
		},
		{
			name:       "StoreError",
			body:       `{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x"}`,
			prepare:    func(m *mock.Mocks) { m.RepairRepo.Err = errors.New("boom") },
			wantStatus: http.StatusInternalServerError,
			wantError:  "Database error",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

			res, data := doRequest(t, h.CreateRepair, http.MethodPost, "/api/repairs", tt.body, nil)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.wantError != "" && errorOf(t, data) != tt.wantError {
				t.Fatalf("expected error %q got %s", tt.wantError, string(data))
			}
			if mocks.RepairRepo.Creates != tt.wantCalls {
				t.Fatalf("expected %d create calls, got %d", tt.wantCalls, mocks.RepairRepo.Creates)
			}
			if res.StatusCode == http.StatusCreated {
				var cr struct {
					Message string `json:"message"`
					JobID   string `json:"jobId"`
					ID      int64  `json:"id"`
				}
				if err := json.Unmarshal(data, &cr); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !regexp.MustCompile(`^FE\d{9}$`).MatchString(cr.JobID) {
					t.Fatalf("unexpected job id %q", cr.JobID)
				}
				if cr.ID == 0 || cr.Message != "Repair job created successfully" {
					t.Fatalf("unexpected response %+v", cr)
				}
			}
		})
	}
}

func TestCreateRepair_AttributesCaller(t *testing.T) {
	mocks := mock.NewMocks()
	h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

	req := httptest.NewRequest(http.MethodPost, "/api/repairs", strings.NewReader(
		`{"customer_name":"A","customer_phone":"555","item_type":"Phone","problem_description":"x"}`))
	req = req.WithContext(contextWithUser(req, "alice"))
	w := httptest.NewRecorder()
	h.CreateRepair(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	if mocks.RepairRepo.LastChanger != "alice" {
		t.Fatalf("expected changed_by alice, got %q", mocks.RepairRepo.LastChanger)
	}
}

func contextWithUser(r *http.Request, username string) context.Context {
	return context.WithValue(r.Context(), api.CtxUser, &auth.Claims{Username: username, Role: "admin"})
}

func TestGetRepair(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.RepairRepo.Put(sampleJob("FE000000001", models.StatusReceived))
	h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

	res, data := doRequest(t, h.GetRepair, http.MethodGet, "/api/repairs/FE000000001", "", map[string]string{"jobId": "FE000000001"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
	var job models.RepairJob
	if err := json.Unmarshal(data, &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.CustomerName != "A" || job.RepairStatus != models.StatusReceived {
		t.Fatalf("unexpected job %+v", job)
	}

	res, data = doRequest(t, h.GetRepair, http.MethodGet, "/api/repairs/FE999", "", map[string]string{"jobId": "FE999"})
	if res.StatusCode != http.StatusNotFound || errorOf(t, data) != "Job not found" {
		t.Fatalf("expected 404 Job not found, got %d %s", res.StatusCode, string(data))
	}
}

func TestListRepairs_PassesFilter(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.RepairRepo.Put(sampleJob("FE1", models.StatusReceived))
	mocks.RepairRepo.Put(sampleJob("FE2", models.StatusCompleted))
	h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

	res, data := doRequest(t, h.ListRepairs, http.MethodGet, "/api/repairs?status=Completed&search=FE", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
	var jobs []models.RepairJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobID != "FE2" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
	if f := mocks.RepairRepo.LastFilter; f.Status != "Completed" || f.Search != "FE" {
		t.Fatalf("unexpected filter %+v", f)
	}

	mocks.RepairRepo.Err = errors.New("boom")
	res, _ = doRequest(t, h.ListRepairs, http.MethodGet, "/api/repairs", "", nil)
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", res.StatusCode)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantCount  int
	}{
		{name: "Neither", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "Job ID or Phone number is required"},
		{name: "Blank", body: `{"jobId":"  ","phone":""}`, wantStatus: http.StatusBadRequest, wantError: "Job ID or Phone number is required"},
		{name: "WrongType", body: `{"jobId":12}`, wantStatus: http.StatusBadRequest},
		{name: "ByJobID", body: `{"jobId":"FE1"}`, wantStatus: http.StatusOK, wantCount: 1},
		{name: "ByPhone", body: `{"phone":"555"}`, wantStatus: http.StatusOK, wantCount: 2},
		{name: "JobIDWins", body: `{"jobId":"FE1","phone":"000"}`, wantStatus: http.StatusOK, wantCount: 1},
		{name: "NoneFound", body: `{"phone":"000"}`, wantStatus: http.StatusNotFound, wantError: "No repair jobs found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			mocks.RepairRepo.Put(sampleJob("FE1", models.StatusReceived))
			mocks.RepairRepo.Put(sampleJob("FE2", models.StatusCompleted))
			h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

			res, data := doRequest(t, h.CheckStatus, http.MethodPost, "/api/check-status", tt.body, nil)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.wantError != "" && errorOf(t, data) != tt.wantError {
				t.Fatalf("expected error %q got %s", tt.wantError, string(data))
			}
			if tt.wantCount > 0 {
				var jobs []models.RepairJob
				if err := json.Unmarshal(data, &jobs); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if len(jobs) != tt.wantCount {
					t.Fatalf("expected %d jobs, got %d", tt.wantCount, len(jobs))
				}
			}
		})
	}
}

func TestUpdateRepair(t *testing.T) {
	tests := []struct {
		name       string
		jobID      string
		body       string
		wantStatus int
		wantError  string
		check      func(t *testing.T, m *mock.Mocks)
	}{
		{
			name: "EmptyBody", jobID: "FE1", body: `{}`,
			wantStatus: http.StatusBadRequest, wantError: "No fields to update",
		},
		{
			name: "BlankStringsAreAbsent", jobID: "FE1", body: `{"repair_status":"","technician_notes":""}`,
			wantStatus: http.StatusBadRequest, wantError: "No fields to update",
		},
		{
			name: "WrongType", jobID: "FE1", body: `{"repair_cost":"lots"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownJob", jobID: "FE404", body: `{"repair_status":"Completed"}`,
			wantStatus: http.StatusNotFound, wantError: "Job not found",
		},
		{
			name: "StatusChange", jobID: "FE1", body: `{"repair_status":"Completed","repair_cost":120.5}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m *mock.Mocks) {
				u := m.RepairRepo.LastUpdate
				if u.RepairStatus == nil || *u.RepairStatus != "Completed" || u.RepairCost == nil || *u.RepairCost != 120.5 {
					t.Fatalf("unexpected update %+v", u)
				}
				if u.PaymentStatus != nil || u.TechnicianNotes != nil {
					t.Fatalf("absent fields should stay nil: %+v", u)
				}
				if m.RepairRepo.LastChanger != "alice" {
					t.Fatalf("expected changed_by alice, got %q", m.RepairRepo.LastChanger)
				}
			},
		},
		{
			name: "ZeroCostIsAField", jobID: "FE1", body: `{"repair_cost":0}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			mocks.RepairRepo.Put(sampleJob("FE1", models.StatusReceived))
			h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

			req := httptest.NewRequest(http.MethodPut, "/api/repairs/"+tt.jobID, bytes.NewBufferString(tt.body))
			req = mux.SetURLVars(req, map[string]string{"jobId": tt.jobID})
			req = req.WithContext(contextWithUser(req, "alice"))
			w := httptest.NewRecorder()
			h.UpdateRepair(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantError != "" && errorOf(t, w.Body.Bytes()) != tt.wantError {
				t.Fatalf("expected error %q got %s", tt.wantError, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t, mocks)
			}
		})
	}
}

func TestListHistory(t *testing.T) {
	mocks := mock.NewMocks()
	h := api.NewRepairsHandler(mocks.RepairRepo, mocks.RepairRepo, jobid.New("FE"))

	res, _ := doRequest(t, h.ListHistory, http.MethodGet, "/api/repairs/FE404/history", "", map[string]string{"jobId": "FE404"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.StatusCode)
	}

	mocks.RepairRepo.Put(sampleJob("FE1", models.StatusReceived))
	res, data := doRequest(t, h.ListHistory, http.MethodGet, "/api/repairs/FE1/history", "", map[string]string{"jobId": "FE1"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %s", string(data))
	}
}
