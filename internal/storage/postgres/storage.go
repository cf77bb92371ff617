package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage relies on; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type schoolRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Schools() repository.SchoolRepository {
	return &schoolRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS schools (
            id SERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            approved BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS students (
            id SERIAL PRIMARY KEY,
            school_id BIGINT NOT NULL REFERENCES schools(id),
            full_name TEXT NOT NULL,
            grade TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            order_type TEXT NOT NULL,
            status TEXT NOT NULL,
            total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            payment_type TEXT NOT NULL,
            payment_complete BOOLEAN NOT NULL DEFAULT FALSE,
            payment_plan_months INT NOT NULL DEFAULT 0,
            monthly_instalment NUMERIC(12,2) NOT NULL DEFAULT 0,
            payments_received INT NOT NULL DEFAULT 0,
            is_marked_final BOOLEAN NOT NULL DEFAULT FALSE,
            school_id BIGINT REFERENCES schools(id),
            requested_school_name TEXT NOT NULL DEFAULT '',
            student_id BIGINT REFERENCES students(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            stationery_ref TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            subtotal NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_status_history (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            from_status TEXT NOT NULL,
            to_status TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            actor_id BIGINT NOT NULL,
            changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            reference TEXT NOT NULL,
            amount NUMERIC(12,2) NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history(order_id, changed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id, recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- SchoolRepository implementation ---

func (r *schoolRepository) Create(ctx context.Context, name string) (*model.School, error) {
	const query = `INSERT INTO schools (name) VALUES ($1) RETURNING id, approved, created_at`
	var sc model.School
	err := r.storage.pool.QueryRow(ctx, query, name).Scan(&sc.ID, &sc.Approved, &sc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	sc.Name = name
	return &sc, nil
}

func (r *schoolRepository) GetByID(ctx context.Context, id int64) (*model.School, error) {
	const query = `SELECT id, name, approved, created_at FROM schools WHERE id=$1`
	var sc model.School
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&sc.ID, &sc.Name, &sc.Approved, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (r *schoolRepository) ListApproved(ctx context.Context) ([]model.School, error) {
	const query = `SELECT id, name, approved, created_at FROM schools WHERE approved ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.School
	for rows.Next() {
		var sc model.School
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Approved, &sc.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *schoolRepository) Approve(ctx context.Context, id int64) (*model.School, error) {
	const query = `UPDATE schools SET approved=TRUE WHERE id=$1 RETURNING id, name, approved, created_at`
	var sc model.School
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&sc.ID, &sc.Name, &sc.Approved, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (r *schoolRepository) CreateStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error) {
	const query = `INSERT INTO students (school_id, full_name, grade) VALUES ($1, $2, $3) RETURNING id`
	var st model.Student
	err := r.storage.pool.QueryRow(ctx, query, schoolID, fullName, grade).Scan(&st.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	st.SchoolID = schoolID
	st.FullName = fullName
	st.Grade = grade
	return &st, nil
}

func (r *schoolRepository) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	const query = `SELECT id, school_id, full_name, grade FROM students WHERE id=$1`
	var st model.Student
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&st.ID, &st.SchoolID, &st.FullName, &st.Grade)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
