package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo   *mockUserRepo
	RepairRepo *mockRepairRepo
	StatsRepo  *mockStatsRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:   &mockUserRepo{},
		RepairRepo: &mockRepairRepo{jobs: map[string]*models.RepairJob{}, history: map[string][]models.StatusHistoryEntry{}},
		StatsRepo:  &mockStatsRepo{},
	}
}

type mockUserRepo struct {
	Stored *models.User
	GetErr error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockUserRepo) SetPassword(ctx context.Context, username, passwordHash string) error {
	if m.Stored == nil || m.Stored.Username != username {
		return repository.ErrNotFound
	}
	m.Stored.PasswordHash = passwordHash
	return nil
}

// mockRepairRepo keeps jobs in memory keyed by job id. It also implements
// HistoryRepo.
type mockRepairRepo struct {
	mu      sync.Mutex
	jobs    map[string]*models.RepairJob
	history map[string][]models.StatusHistoryEntry
	nextID  int64

	// Err, when set, is returned by every method.
	Err error
	// DuplicateFor makes CreateRepair fail with ErrDuplicateJobID this many times.
	DuplicateFor int
	// LastUpdate and LastFilter record the most recent arguments.
	LastUpdate  models.RepairUpdate
	LastFilter  models.RepairFilter
	LastChanger string
	Creates     int
}

func (m *mockRepairRepo) Put(j models.RepairJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.JobID] = &j
}

func (m *mockRepairRepo) ListRepairs(ctx context.Context, f models.RepairFilter) ([]models.RepairJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = f
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.RepairJob{}
	for _, j := range m.jobs {
		if f.Status != "" && f.Status != "All" && j.RepairStatus != f.Status {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (m *mockRepairRepo) GetRepairByJobID(ctx context.Context, jobID string) (*models.RepairJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *mockRepairRepo) FindRepairs(ctx context.Context, jobID, phone string) ([]models.RepairJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.RepairJob
	for _, j := range m.jobs {
		if (jobID != "" && j.JobID == jobID) || (jobID == "" && j.CustomerPhone == phone) {
			out = append(out, *j)
		}
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (m *mockRepairRepo) CreateRepair(ctx context.Context, j *models.RepairJob, changedBy string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	m.LastChanger = changedBy
	if m.Err != nil {
		return 0, m.Err
	}
	if m.DuplicateFor > 0 {
		m.DuplicateFor--
		return 0, repository.ErrDuplicateJobID
	}
	if _, ok := m.jobs[j.JobID]; ok {
		return 0, repository.ErrDuplicateJobID
	}
	m.nextID++
	cp := *j
	cp.ID = m.nextID
	if cp.RepairStatus == "" {
		cp.RepairStatus = models.StatusReceived
	}
	m.jobs[cp.JobID] = &cp
	m.appendHistory(cp.JobID, cp.RepairStatus, changedBy)
	return cp.ID, nil
}

func (m *mockRepairRepo) UpdateRepair(ctx context.Context, jobID string, u models.RepairUpdate, changedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastUpdate = u
	m.LastChanger = changedBy
	if m.Err != nil {
		return m.Err
	}
	if u.IsEmpty() {
		return repository.ErrNoFieldsProvided
	}
	j, ok := m.jobs[jobID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.RepairStatus != nil {
		j.RepairStatus = *u.RepairStatus
		m.appendHistory(jobID, *u.RepairStatus, changedBy)
	}
	if u.RepairCost != nil {
		j.RepairCost = *u.RepairCost
	}
	if u.PaymentStatus != nil {
		j.PaymentStatus = *u.PaymentStatus
	}
	return nil
}

func (m *mockRepairRepo) appendHistory(jobID, status, changedBy string) {
	by := changedBy
	m.history[jobID] = append(m.history[jobID], models.StatusHistoryEntry{
		ID:        int64(len(m.history[jobID]) + 1),
		JobID:     jobID,
		Status:    status,
		ChangedBy: &by,
	})
}

func (m *mockRepairRepo) ListHistory(ctx context.Context, jobID string) ([]models.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.jobs[jobID]; !ok {
		return nil, repository.ErrNotFound
	}
	out := m.history[jobID]
	if out == nil {
		out = []models.StatusHistoryEntry{}
	}
	return out, nil
}

type mockStatsRepo struct {
	Stats models.DashboardStats
	Err   error
}

func (m *mockStatsRepo) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s := m.Stats
	return &s, nil
}

var (
	_ repository.UserRepo    = (*mockUserRepo)(nil)
	_ repository.RepairRepo  = (*mockRepairRepo)(nil)
	_ repository.HistoryRepo = (*mockRepairRepo)(nil)
	_ repository.StatsRepo   = (*mockStatsRepo)(nil)
)
