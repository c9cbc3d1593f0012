package store

import (
	"context"
	"fmt"
	"time"

	"opsboard/internal/utils"
	"opsboard/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentTableName = "opsboard.payments"

var paymentColumns = utils.StructTagValues(types.Payment{})

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Payment(ctx context.Context, paymentID string) (*types.Payment, error) {

	query, args, err := psql().Select(paymentColumns...).From(paymentTableName).
		Where(sq.Eq{"id": paymentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment query: %w", err)
	}

	var payment types.Payment
	err = pgxscan.Get(ctx, r.pool, &payment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	return &payment, nil
}

func (r *PaymentRepository) PaymentsByFilter(ctx context.Context, filter types.PaymentFilter) ([]*types.Payment, error) {

	builder := psql().Select(paymentColumns...).From(paymentTableName)

	if filter.RegisteringUser != "" {
		builder = builder.Where(sq.Eq{"registering_user": filter.RegisteringUser})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"paid_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.Lt{"paid_at": *filter.To})
	}

	query, args, err := builder.OrderBy("paid_at desc").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment filter query: %w", err)
	}

	var payments = make([]*types.Payment, 0)
	if err := pgxscan.Select(ctx, r.pool, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return payments, nil
}

// CreatePayment inserts a ledger row. Payments are immutable; there is no
// update path.
func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *types.Payment) error {

	payment.ID = utils.NanoID()
	payment.CreatedAt = time.Now()
	if payment.PaidAt.IsZero() {
		payment.PaidAt = payment.CreatedAt
	}

	paymentMap := utils.StructToMap(payment)

	query, args, err := psql().Insert(paymentTableName).SetMap(paymentMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert payment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create payment")

}
