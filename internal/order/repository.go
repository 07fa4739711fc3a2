package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

const orderColumns = `id, user_id, ship_full_name, ship_street, ship_city, ship_postal_code, ship_country,
	payment_method, items_price, shipping_price, tax_price, total_price,
	is_paid, paid_at, pay_external_id, pay_status, pay_update_time, pay_email,
	is_delivered, created_at`

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListByBucket(ctx context.Context, b Bucket) ([]*Order, error)
	MarkPaidTx(ctx context.Context, orderID int64, result PaymentResult, paidAt time.Time) error
	MarkDelivered(ctx context.Context, orderID int64) error
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	PurgeUnpaid(ctx context.Context) (int64, error)
	PurgeCompleted(ctx context.Context) (int64, error)
	CountByBucket(ctx context.Context, b Bucket) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// bucketPredicate maps a status bucket to its WHERE clause. The three
// buckets partition all orders.
func bucketPredicate(b Bucket) string {
	switch b {
	case BucketUnpaid:
		return "is_paid = FALSE"
	case BucketAwaitingDelivery:
		return "is_paid = TRUE AND is_delivered = FALSE"
	case BucketCompleted:
		return "is_paid = TRUE AND is_delivered = TRUE"
	default:
		return "FALSE"
	}
}

func (r *repository) Create(ctx context.Context, o *Order) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, ship_full_name, ship_street, ship_city, ship_postal_code, ship_country,
			payment_method, items_price, shipping_price, tax_price, total_price
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`,
		o.UserID,
		o.ShippingAddress.FullName,
		o.ShippingAddress.Street,
		o.ShippingAddress.City,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country,
		o.PaymentMethod,
		o.ItemsPrice,
		o.ShippingPrice,
		o.TaxPrice,
		o.TotalPrice,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for i := range o.Items {
		item := &o.Items[i]
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`,
			o.ID, item.ProductID, item.Name, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			return nil, err
		}
		item.OrderID = o.ID
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return nil, err
	}

	committed = true
	log.Info("order created", zap.Int64("order_id", o.ID))
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o      Order
		paidAt sql.NullTime
		payID  sql.NullString
		payST  sql.NullString
		payTM  sql.NullString
		payEM  sql.NullString
	)

	err := row.Scan(
		&o.ID, &o.UserID,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Street, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &payID, &payST, &payTM, &payEM,
		&o.IsDelivered, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	if payID.Valid {
		o.PaymentResult = &PaymentResult{
			ExternalID: payID.String,
			Status:     payST.String,
			UpdateTime: payTM.String,
			PayerEmail: payEM.String,
		}
	}

	return &o, nil
}

func (r *repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}

	return orders, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *repository) ListByBucket(ctx context.Context, b Bucket) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+bucketPredicate(b)+` ORDER BY id`)
}

// MarkPaidTx flips the order to paid, records the confirmation verbatim
// and decrements stock for every line item, all inside one transaction.
// The paid flip is conditional on is_paid = FALSE so a concurrent or
// repeated pay attempt can never decrement stock twice. Each decrement is
// conditional on stock >= quantity; a failed guard aborts the whole unit
// of work, leaving order and inventory untouched.
func (r *repository) MarkPaidTx(ctx context.Context, orderID int64, result PaymentResult, paidAt time.Time) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MarkPaidTx"),
		zap.Int64("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("pay transaction rolled back")
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE,
			paid_at = $2,
			pay_external_id = $3,
			pay_status = $4,
			pay_update_time = $5,
			pay_email = $6
		WHERE id = $1 AND is_paid = FALSE
	`, orderID, paidAt, result.ExternalID, result.Status, result.UpdateTime, result.PayerEmail)
	if err != nil {
		log.Error("failed to mark order paid", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the order vanished or a concurrent pay won the race.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrAlreadyPaid
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return err
	}

	type lineItem struct {
		productID int64
		quantity  int
	}
	var items []lineItem
	for rows.Next() {
		var it lineItem
		if err := rows.Scan(&it.productID, &it.quantity); err != nil {
			rows.Close()
			return err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if len(items) == 0 {
		return ErrNoItems
	}

	for _, it := range items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, it.quantity, it.productID)
		if err != nil {
			log.Error("failed to decrement stock",
				zap.Int64("product_id", it.productID),
				zap.Error(err),
			)
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, it.productID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				log.Warn("order item references missing product",
					zap.Int64("product_id", it.productID))
				return ErrProductNotFound
			}
			log.Warn("insufficient stock, aborting pay",
				zap.Int64("product_id", it.productID),
				zap.Int("quantity", it.quantity),
			)
			return ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit pay transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("pay transaction committed", zap.Int("item_count", len(items)))
	return nil
}

// MarkDelivered transitions a paid order to delivered. The update is
// conditional on is_paid = TRUE so an unpaid order can never be delivered.
func (r *repository) MarkDelivered(ctx context.Context, orderID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_delivered = TRUE
		WHERE id = $1 AND is_paid = TRUE
	`, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrNotPaid
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) PurgeUnpaid(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE `+bucketPredicate(BucketUnpaid))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) PurgeCompleted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE `+bucketPredicate(BucketCompleted))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) CountByBucket(ctx context.Context, b Bucket) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE `+bucketPredicate(b)).Scan(&n)
	return n, err
}
