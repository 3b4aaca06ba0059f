package mysql

import (
	"context"
	"database/sql"
	"errors"

	"auction-marketplace/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

// AppendBid inserts one accepted bid. Rows are never updated or deleted in
// normal operation.
func (r *MySQLBidRepository) AppendBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, item_id, customer_id, seller_id, amount, bid_time)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.ID, bid.ItemID, bid.CustomerID, bid.SellerID, bid.Amount, bid.BidTime)
	return err
}

func (r *MySQLBidRepository) GetBid(ctx context.Context, bidID string) (*domain.Bid, error) {
	query := `
        SELECT id, item_id, customer_id, seller_id, amount, bid_time
        FROM bids WHERE id = ?
    `

	var bid domain.Bid
	err := r.db.QueryRowContext(ctx, query, bidID).Scan(
		&bid.ID, &bid.ItemID, &bid.CustomerID, &bid.SellerID, &bid.Amount, &bid.BidTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, err
	}

	return &bid, nil
}

func (r *MySQLBidRepository) ListBidsByItem(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, customer_id, seller_id, amount, bid_time
        FROM bids
        WHERE item_id = ?
        ORDER BY bid_time ASC, id ASC
    `

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		err := rows.Scan(&bid.ID, &bid.ItemID, &bid.CustomerID, &bid.SellerID,
			&bid.Amount, &bid.BidTime)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}

	return bids, rows.Err()
}

// HighestBid returns the latest bid for the item, which the monotonic ledger
// guarantees is also the maximum. Returns nil for an empty ledger.
func (r *MySQLBidRepository) HighestBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	query := `
        SELECT id, item_id, customer_id, seller_id, amount, bid_time
        FROM bids
        WHERE item_id = ?
        ORDER BY bid_time DESC, id DESC
        LIMIT 1
    `

	var bid domain.Bid
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&bid.ID, &bid.ItemID, &bid.CustomerID, &bid.SellerID, &bid.Amount, &bid.BidTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &bid, nil
}
