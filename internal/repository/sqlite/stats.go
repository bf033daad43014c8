package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/workshop/pkg/models"
)

// DashboardStats computes every figure in a single statement so they all come
// from the same snapshot.
func (r *SQLiteRepo) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN repair_status NOT IN (?, ?) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN repair_status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN repair_status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN payment_status = ? THEN repair_cost END), 0)
		FROM repair_jobs`,
		models.StatusCompleted, models.StatusDelivered,
		models.StatusCompleted,
		models.StatusDelivered,
		models.PaymentPaid,
	)

	var s models.DashboardStats
	if err := row.Scan(&s.Total, &s.Pending, &s.Completed, &s.Delivered, &s.TotalRevenue); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}
