package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
)

const repairColumns = `id, job_id, customer_id, customer_name, customer_phone, item_type, brand_model, problem_description, received_date, expected_completion, delivery_date, repair_status, repair_cost, payment_status, technician_notes, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRepair(s scanner) (*models.RepairJob, error) {
	var (
		j                                    models.RepairJob
		customerID                           sql.NullInt64
		brand, expected, delivered, techNote sql.NullString
	)
	err := s.Scan(&j.ID, &j.JobID, &customerID, &j.CustomerName, &j.CustomerPhone, &j.ItemType, &brand,
		&j.ProblemDescription, &j.ReceivedDate, &expected, &delivered, &j.RepairStatus, &j.RepairCost,
		&j.PaymentStatus, &techNote, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	j.CustomerID = nullInt64(customerID)
	j.BrandModel = nullString(brand)
	j.ExpectedCompletion = nullString(expected)
	j.DeliveryDate = nullString(delivered)
	j.TechnicianNotes = nullString(techNote)

	return &j, nil
}

func (r *SQLiteRepo) queryRepairs(ctx context.Context, query string, args ...any) ([]models.RepairJob, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RepairJob{}
	for rows.Next() {
		j, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

// ListRepairs returns jobs newest first. Status "All" disables the status
// filter; Search is a case-sensitive substring match on job id, customer name
// and phone.
func (r *SQLiteRepo) ListRepairs(ctx context.Context, f models.RepairFilter) ([]models.RepairJob, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" && f.Status != "All" {
		where = append(where, `repair_status = ?`)
		args = append(args, f.Status)
	}
	if f.Search != "" {
		where = append(where, `(instr(job_id, ?) > 0 OR instr(customer_name, ?) > 0 OR instr(customer_phone, ?) > 0)`)
		args = append(args, f.Search, f.Search, f.Search)
	}

	q := `SELECT ` + repairColumns + ` FROM repair_jobs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	out, err := r.queryRepairs(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list repairs: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) GetRepairByJobID(ctx context.Context, jobID string) (*models.RepairJob, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+repairColumns+` FROM repair_jobs WHERE job_id = ?`, jobID)
	j, err := scanRepair(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get repair %s: %w", jobID, err)
	}

	return j, nil
}

// FindRepairs looks jobs up by job id or, when jobID is empty, by customer
// phone. It returns ErrNotFound when nothing matches.
func (r *SQLiteRepo) FindRepairs(ctx context.Context, jobID, phone string) ([]models.RepairJob, error) {
	var (
		col, val string
	)
	switch {
	case jobID != "":
		col, val = "job_id", jobID
	case phone != "":
		col, val = "customer_phone", phone
	default:
		return nil, fmt.Errorf("job id or phone is required")
	}

	out, err := r.queryRepairs(ctx, `SELECT `+repairColumns+` FROM repair_jobs WHERE `+col+` = ? ORDER BY created_at DESC, id DESC`, val)
	if err != nil {
		return nil, fmt.Errorf("find repairs by %s: %w", col, err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}

	return out, nil
}

// CreateRepair inserts j and its initial "Received" history entry in one
// transaction. Unset optional fields get their defaults written back into j.
func (r *SQLiteRepo) CreateRepair(ctx context.Context, j *models.RepairJob, changedBy string) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("repair job is nil")
	}
	if j.JobID == "" {
		return 0, fmt.Errorf("repair job id is empty")
	}

	if j.BrandModel == nil {
		empty := ""
		j.BrandModel = &empty
	}
	if j.ReceivedDate == "" {
		j.ReceivedDate = r.today()
	}
	if j.RepairStatus == "" {
		j.RepairStatus = models.StatusReceived
	}
	if j.PaymentStatus == "" {
		j.PaymentStatus = models.PaymentPending
	}
	ts := r.timestamp()
	j.CreatedAt, j.UpdatedAt = ts, ts

	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO repair_jobs (job_id, customer_id, customer_name, customer_phone, item_type, brand_model, problem_description, received_date, expected_completion, delivery_date, repair_status, repair_cost, payment_status, technician_notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			j.JobID, j.CustomerID, j.CustomerName, j.CustomerPhone, j.ItemType, j.BrandModel, j.ProblemDescription,
			j.ReceivedDate, j.ExpectedCompletion, j.DeliveryDate, j.RepairStatus, j.RepairCost, j.PaymentStatus,
			j.TechnicianNotes, j.CreatedAt, j.UpdatedAt)
		if err != nil {
			if isConstraintViolation(err, "repair_jobs.job_id") {
				return repository.ErrDuplicateJobID
			}
			return fmt.Errorf("insert repair: %w", err)
		}
		if j.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		return appendHistory(ctx, tx, j.JobID, models.StatusReceived, nil, changedBy, ts)
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("repair created", "job_id", j.JobID, "id", j.ID)
	return j.ID, nil
}

// UpdateRepair writes the supplied fields of u and bumps updated_at. When the
// status changes a history row is appended in the same transaction.
func (r *SQLiteRepo) UpdateRepair(ctx context.Context, jobID string, u models.RepairUpdate, changedBy string) error {
	if u.IsEmpty() {
		return repository.ErrNoFieldsProvided
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+` = ?`)
		args = append(args, v)
	}
	if u.RepairStatus != nil {
		add("repair_status", *u.RepairStatus)
	}
	if u.RepairCost != nil {
		add("repair_cost", *u.RepairCost)
	}
	if u.PaymentStatus != nil {
		add("payment_status", *u.PaymentStatus)
	}
	if u.TechnicianNotes != nil {
		add("technician_notes", *u.TechnicianNotes)
	}
	if u.ExpectedCompletion != nil {
		add("expected_completion", *u.ExpectedCompletion)
	}
	if u.DeliveryDate != nil {
		add("delivery_date", *u.DeliveryDate)
	}
	ts := r.timestamp()
	add("updated_at", ts)
	args = append(args, jobID)

	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE repair_jobs SET `+strings.Join(sets, `, `)+` WHERE job_id = ?`, args...)
		if err != nil {
			return fmt.Errorf("update repair %s: %w", jobID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}

		if u.RepairStatus == nil {
			return nil
		}
		notes := ""
		if u.TechnicianNotes != nil {
			notes = *u.TechnicianNotes
		}
		return appendHistory(ctx, tx, jobID, *u.RepairStatus, &notes, changedBy, ts)
	})
}
