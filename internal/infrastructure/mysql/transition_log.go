package mysql

import (
	"context"
	"database/sql"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/utils"
)

// MySQLTransitionLog is an append-only audit of phase transitions applied by
// the sweep and the approval workflow.
type MySQLTransitionLog struct {
	db *sql.DB
}

func NewMySQLTransitionLog(db *sql.DB) *MySQLTransitionLog {
	return &MySQLTransitionLog{db: db}
}

func (r *MySQLTransitionLog) RecordTransition(ctx context.Context, itemID string, from, to domain.AuctionPhase, at time.Time) error {
	query := `
        INSERT INTO phase_transitions (id, item_id, from_phase, to_phase, occurred_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		utils.GenerateID("transition"), itemID, int(from), int(to), at)
	return err
}
