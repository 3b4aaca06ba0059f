package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"auction-marketplace/internal/domain"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
        SELECT id, seller_id, category_id, name, starting_price, bid_increment,
               status, approved_at, admin_id, start_time, end_time, auction_phase,
               created_at, updated_at
        FROM items WHERE id = ?
    `

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *MySQLItemRepository) ListItems(ctx context.Context) ([]*domain.Item, error) {
	query := `
        SELECT id, seller_id, category_id, name, starting_price, bid_increment,
               status, approved_at, admin_id, start_time, end_time, auction_phase,
               created_at, updated_at
        FROM items
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *MySQLItemRepository) UpdateAuctionPhase(ctx context.Context, itemID string, phase domain.AuctionPhase) error {
	query := `UPDATE items SET auction_phase = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, int(phase), time.Now(), itemID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *MySQLItemRepository) UpdateApproval(ctx context.Context, itemID string, status domain.ItemStatus, approvedAt *time.Time, adminID string) error {
	query := `UPDATE items SET status = ?, approved_at = ?, admin_id = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(status), nullableTime(approvedAt), nullableString(adminID), time.Now(), itemID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var status string
	var phase int
	var approvedAt, startTime, endTime sql.NullTime
	var adminID sql.NullString

	err := row.Scan(&item.ID, &item.SellerID, &item.CategoryID, &item.Name,
		&item.StartingPrice, &item.BidIncrement, &status, &approvedAt, &adminID,
		&startTime, &endTime, &phase, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ItemStatus(status)
	item.AuctionPhase = domain.AuctionPhase(phase)
	if approvedAt.Valid {
		item.ApprovedAt = &approvedAt.Time
	}
	if adminID.Valid {
		item.AdminID = adminID.String
	}
	if startTime.Valid {
		item.StartTime = &startTime.Time
	}
	if endTime.Valid {
		item.EndTime = &endTime.Time
	}

	return &item, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
