package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL,
			restaurant_id BIGINT NOT NULL,
			courier_id BIGINT,
			status TEXT NOT NULL DEFAULT 'pendente',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			estimated_minutes INT NOT NULL DEFAULT 0,
			delivery_address TEXT NOT NULL DEFAULT '',
			notes TEXT,
			confirmation_code TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_name TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_details (
			courier_id BIGINT PRIMARY KEY,
			approval_status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_details (
			restaurant_id BIGINT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_printers (
			id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			target TEXT NOT NULL DEFAULT 'kitchen',
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS print_jobs (
			id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL,
			printer_id BIGINT,
			order_id BIGINT,
			job_type TEXT NOT NULL,
			content TEXT NOT NULL,
			copies INT NOT NULL DEFAULT 1,
			priority INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			max_retries INT NOT NULL DEFAULT 3,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS printer_connections (
			restaurant_id BIGINT PRIMARY KEY,
			connection_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'disconnected',
			last_heartbeat TIMESTAMPTZ,
			last_error TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

const orderColumns = `id, client_id, restaurant_id, courier_id, status, payment_status,
	total_amount, delivery_fee, estimated_minutes, delivery_address,
	COALESCE(notes, ''), COALESCE(confirmation_code, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var o domain.Order
	var courierID sql.NullInt64
	err := row.Scan(&o.ID, &o.ClientID, &o.RestaurantID, &courierID, &o.Status, &o.PaymentStatus,
		&o.TotalAmount, &o.DeliveryFee, &o.EstimatedMinutes, &o.DeliveryAddress,
		&o.Notes, &o.ConfirmationCode, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if courierID.Valid {
		o.CourierID = &courierID.Int64
	}
	return &o, nil
}

// CreateOrder inserts the order and its item snapshots in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *domain.Order, items []domain.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (client_id, restaurant_id, status, payment_status, total_amount,
			delivery_fee, estimated_minutes, delivery_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		o.ClientID, o.RestaurantID, o.Status, o.PaymentStatus, o.TotalAmount,
		o.DeliveryFee, o.EstimatedMinutes, o.DeliveryAddress, o.Notes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_name, quantity, unit_price, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			o.ID, items[i].ProductName, items[i].Quantity, items[i].UnitPrice, items[i].Notes).
			Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	o.Items = items
	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	return o, err
}

func (r *PostgresRepository) GetOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, product_name, quantity, unit_price, COALESCE(notes, '')
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Notes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus writes the new status only when the current one still matches.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ClaimOrder is the one spot where couriers genuinely race. The conditional
// update binds the courier only if nobody else did; the loser simply affects
// zero rows.
func (r *PostgresRepository) ClaimOrder(ctx context.Context, id, courierID int64, code string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET courier_id = $1, status = $2, confirmation_code = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND courier_id IS NULL AND status IN ($5, $6)`,
		courierID, domain.StatusAceitoEntregador, code, id,
		domain.StatusPronto, domain.StatusConfirmado)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *PostgresRepository) SetPaymentStatus(ctx context.Context, id int64, ps domain.PaymentStatus) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`, ps, id)
	return err
}

func (r *PostgresRepository) ListClaimable(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE courier_id IS NULL AND status IN ($1, $2)
		ORDER BY created_at`, domain.StatusPronto, domain.StatusConfirmado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		// couriers pick from this list; the code stays with the client
		o.ConfirmationCode = ""
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetApproval(ctx context.Context, courierID int64) (domain.ApprovalStatus, error) {
	var status domain.ApprovalStatus
	err := r.DB.QueryRowContext(ctx,
		`SELECT approval_status FROM delivery_details WHERE courier_id = $1`, courierID).
		Scan(&status)
	if err == sql.ErrNoRows {
		return domain.ApprovalPending, nil
	}
	return status, err
}

func (r *PostgresRepository) ListPrinters(ctx context.Context, restaurantID int64) ([]domain.Printer, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, target, active
		FROM restaurant_printers
		WHERE restaurant_id = $1 AND active
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var printers []domain.Printer
	for rows.Next() {
		var p domain.Printer
		if err := rows.Scan(&p.ID, &p.RestaurantID, &p.Name, &p.Target, &p.Active); err != nil {
			return nil, err
		}
		printers = append(printers, p)
	}
	return printers, rows.Err()
}

func (r *PostgresRepository) CreateJob(ctx context.Context, job *domain.PrintJob) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO print_jobs (restaurant_id, printer_id, order_id, job_type, content,
			copies, priority, status, retry_count, max_retries)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		job.RestaurantID, job.PrinterID, job.OrderID, job.JobType, job.Content,
		job.Copies, job.Priority, job.Status, job.RetryCount, job.MaxRetries).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *PostgresRepository) GetJob(ctx context.Context, id int64) (*domain.PrintJob, error) {
	var job domain.PrintJob
	var printerID, orderID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, printer_id, order_id, job_type, content, copies,
			priority, status, retry_count, max_retries, COALESCE(error_message, ''),
			created_at, updated_at
		FROM print_jobs WHERE id = $1`, id).
		Scan(&job.ID, &job.RestaurantID, &printerID, &orderID, &job.JobType, &job.Content,
			&job.Copies, &job.Priority, &job.Status, &job.RetryCount, &job.MaxRetries,
			&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if printerID.Valid {
		job.PrinterID = &printerID.Int64
	}
	if orderID.Valid {
		job.OrderID = &orderID.Int64
	}
	return &job, nil
}

func (r *PostgresRepository) UpdateJob(ctx context.Context, id int64, status domain.PrintJobStatus, retryCount int, errMsg string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE print_jobs
		SET status = $1, retry_count = $2, error_message = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`, status, retryCount, errMsg, id)
	return err
}

// UpsertConnection overwrites the authoritative connection row for the
// restaurant on every channel lifecycle event.
func (r *PostgresRepository) UpsertConnection(ctx context.Context, conn *domain.PrinterConnection) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO printer_connections (restaurant_id, connection_id, status, last_heartbeat, last_error, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (restaurant_id) DO UPDATE
		SET connection_id = EXCLUDED.connection_id,
			status = EXCLUDED.status,
			last_heartbeat = EXCLUDED.last_heartbeat,
			last_error = EXCLUDED.last_error,
			updated_at = CURRENT_TIMESTAMP`,
		conn.RestaurantID, conn.ConnectionID, conn.Status, conn.LastHeartbeat, conn.LastError)
	return err
}

func (r *PostgresRepository) GetConnection(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error) {
	var pc domain.PrinterConnection
	var hb sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT restaurant_id, connection_id, status, last_heartbeat, COALESCE(last_error, ''), updated_at
		FROM printer_connections WHERE restaurant_id = $1`, restaurantID).
		Scan(&pc.RestaurantID, &pc.ConnectionID, &pc.Status, &hb, &pc.LastError, &pc.UpdatedAt)
	if err == sql.ErrNoRows {
		return &domain.PrinterConnection{RestaurantID: restaurantID, Status: domain.ConnDisconnected}, nil
	}
	if err != nil {
		return nil, err
	}
	if hb.Valid {
		pc.LastHeartbeat = &hb.Time
	}
	return &pc, nil
}
