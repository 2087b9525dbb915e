package postgres

import "context"

// HealthCheck implements ports.HealthChecker for PostgreSQL.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping runs a trivial query through the pool.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var one int
	return h.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}
