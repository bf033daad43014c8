package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type User struct {
	ID           int64   `json:"id" db:"id"`
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password"`
	Email        *string `json:"email,omitempty" db:"email"`
	Role         string  `json:"role" db:"role"`
	CreatedAt    string  `json:"created_at" db:"created_at"`
}

type Customer struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Phone     string  `json:"phone" db:"phone"`
	Email     *string `json:"email" db:"email"`
	Address   *string `json:"address" db:"address"`
	CreatedAt string  `json:"created_at" db:"created_at"`
}

// Repair job statuses used by the workshop. The column is an open string:
// any status may follow any other.
const (
	StatusReceived  = "Received"
	StatusCompleted = "Completed"
	StatusDelivered = "Delivered"

	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

type RepairJob struct {
	ID                 int64   `json:"id" db:"id"`
	JobID              string  `json:"job_id" db:"job_id"`
	CustomerID         *int64  `json:"customer_id" db:"customer_id"`
	CustomerName       string  `json:"customer_name" db:"customer_name"`
	CustomerPhone      string  `json:"customer_phone" db:"customer_phone"`
	ItemType           string  `json:"item_type" db:"item_type"`
	BrandModel         *string `json:"brand_model" db:"brand_model"`
	ProblemDescription string  `json:"problem_description" db:"problem_description"`
	ReceivedDate       string  `json:"received_date" db:"received_date"`
	ExpectedCompletion *string `json:"expected_completion" db:"expected_completion"`
	DeliveryDate       *string `json:"delivery_date" db:"delivery_date"`
	RepairStatus       string  `json:"repair_status" db:"repair_status"`
	RepairCost         float64 `json:"repair_cost" db:"repair_cost"`
	PaymentStatus      string  `json:"payment_status" db:"payment_status"`
	TechnicianNotes    *string `json:"technician_notes" db:"technician_notes"`
	CreatedAt          string  `json:"created_at" db:"created_at"`
	UpdatedAt          string  `json:"updated_at" db:"updated_at"`
}

type StatusHistoryEntry struct {
	ID        int64   `json:"id" db:"id"`
	JobID     string  `json:"job_id" db:"job_id"`
	Status    string  `json:"status" db:"status"`
	Notes     *string `json:"notes" db:"notes"`
	ChangedBy *string `json:"changed_by" db:"changed_by"`
	ChangedAt string  `json:"changed_at" db:"changed_at"`
}

// RepairFilter narrows ListRepairs. Empty fields do not filter.
type RepairFilter struct {
	Status string
	Search string
}

// RepairUpdate is a partial update; nil fields are left untouched.
type RepairUpdate struct {
	RepairStatus       *string
	RepairCost         *float64
	PaymentStatus      *string
	TechnicianNotes    *string
	ExpectedCompletion *string
	DeliveryDate       *string
}

// IsEmpty reports whether no field is set.
func (u RepairUpdate) IsEmpty() bool {
	return u.RepairStatus == nil && u.RepairCost == nil && u.PaymentStatus == nil &&
		u.TechnicianNotes == nil && u.ExpectedCompletion == nil && u.DeliveryDate == nil
}

type DashboardStats struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	Completed    int64   `json:"completed"`
	Delivered    int64   `json:"delivered"`
	TotalRevenue float64 `json:"total_revenue"`
}
