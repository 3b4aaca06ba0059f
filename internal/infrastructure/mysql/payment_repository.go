package mysql

import (
	"context"
	"database/sql"
	"errors"

	"auction-marketplace/internal/domain"
)

type MySQLPaymentRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

func (r *MySQLPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	query := `
        INSERT INTO payments (id, bid_id, customer_id, seller_id, amount, status, transaction_time)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.BidID, payment.CustomerID, payment.SellerID,
		payment.Amount, string(payment.Status), payment.TransactionTime)
	return err
}

func (r *MySQLPaymentRepository) GetPaymentByBid(ctx context.Context, bidID string) (*domain.Payment, error) {
	query := `
        SELECT id, bid_id, customer_id, seller_id, amount, status, transaction_time
        FROM payments WHERE bid_id = ?
    `

	var payment domain.Payment
	var status string

	err := r.db.QueryRowContext(ctx, query, bidID).Scan(
		&payment.ID, &payment.BidID, &payment.CustomerID, &payment.SellerID,
		&payment.Amount, &status, &payment.TransactionTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	payment.Status = domain.PaymentStatus(status)
	return &payment, nil
}
