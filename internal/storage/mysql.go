package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KonarzewskiP/software-testing/internal/config"
	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
)

const mysqlDuplicateEntry = 1062

// isPhoneConflict reports whether err is a duplicate-key violation on the
// phone number index. A 1062 on the primary key (re-saving an existing id)
// is not a phone conflict and falls through to the generic error path.
func isPhoneConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) &&
		mysqlErr.Number == mysqlDuplicateEntry &&
		strings.Contains(mysqlErr.Message, "idx_phone_number")
}

type MySQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MySQLStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established and tables initialized")
	return store, nil
}

func (s *MySQLStore) initTables() error {
	s.log.LogDatabase("MIGRATE", "mysql", "Creating tables if not exist")

	queries := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(32) NOT NULL,
			UNIQUE INDEX idx_phone_number (phone_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS payments (
			id VARCHAR(36) PRIMARY KEY,
			customer_id VARCHAR(36) NOT NULL,
			amount DECIMAL(19,4) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			source VARCHAR(255) NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_customer_id (customer_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id VARCHAR(36) PRIMARY KEY,
			customer_id VARCHAR(36) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			bank_name VARCHAR(255) NOT NULL,
			balance DECIMAL(19,4) NOT NULL,
			branch_id BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_account_customer_id (customer_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	s.log.LogDatabase("SUCCESS", "mysql", "Tables ready")
	return nil
}

func (s *MySQLStore) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT id, name, phone_number FROM customers WHERE id = ?`

	return s.scanCustomer(s.db.QueryRowContext(ctx, query, id.String()))
}

func (s *MySQLStore) FindCustomerByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	query := `SELECT id, name, phone_number FROM customers WHERE phone_number = ?`

	return s.scanCustomer(s.db.QueryRowContext(ctx, query, phoneNumber))
}

func (s *MySQLStore) scanCustomer(row *sql.Row) (*models.Customer, error) {
	var rawID string
	customer := &models.Customer{}

	err := row.Scan(&rawID, &customer.Name, &customer.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id %q: %w", rawID, err)
	}
	return customer, nil
}

func (s *MySQLStore) SaveCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	saved := *customer
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}

	s.log.LogDatabase("INSERT", "customers", fmt.Sprintf("Saving customer %s", saved.ID))

	query := `INSERT INTO customers (id, name, phone_number) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, saved.ID.String(), saved.Name, saved.PhoneNumber)
	if err != nil {
		if isPhoneConflict(err) {
			return nil, ErrPhoneNumberTaken
		}
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "customers", fmt.Sprintf("Customer %s saved", saved.ID))
	return &saved, nil
}

func (s *MySQLStore) SavePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	saved := *payment
	saved.ID = uuid.New()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}

	s.log.LogDatabase("INSERT", "payments", fmt.Sprintf("Saving payment %s", saved.ID))

	query := `INSERT INTO payments (id, customer_id, amount, currency, source, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		saved.ID.String(),
		saved.CustomerID.String(),
		saved.Amount.String(),
		string(saved.Currency),
		saved.Source,
		saved.Description,
		saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "payments", fmt.Sprintf("Payment %s saved", saved.ID))
	return &saved, nil
}

func (s *MySQLStore) SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	saved := *account
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}

	s.log.LogDatabase("INSERT", "accounts", fmt.Sprintf("Saving account %s", saved.ID))

	query := `INSERT INTO accounts (id, customer_id, currency, bank_name, balance, branch_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		saved.ID.String(),
		saved.CustomerID.String(),
		string(saved.Currency),
		saved.BankName,
		saved.Balance.String(),
		saved.BranchID,
		saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "accounts", fmt.Sprintf("Account %s saved", saved.ID))
	return &saved, nil
}

// ListPaymentsByCustomer returns the recorded payments for one customer,
// newest first.
func (s *MySQLStore) ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}

	query := `SELECT id, customer_id, amount, currency, source, description, created_at
		FROM payments WHERE customer_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, customerID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var rawID, rawCustomerID, rawAmount, rawCurrency string
		payment := &models.Payment{}

		err := rows.Scan(&rawID, &rawCustomerID, &rawAmount, &rawCurrency,
			&payment.Source, &payment.Description, &payment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		if payment.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("invalid payment id %q: %w", rawID, err)
		}
		if payment.CustomerID, err = uuid.Parse(rawCustomerID); err != nil {
			return nil, fmt.Errorf("invalid customer id %q: %w", rawCustomerID, err)
		}
		if payment.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", rawAmount, err)
		}
		payment.Currency = models.Currency(rawCurrency)

		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return payments, nil
}

func (s *MySQLStore) HealthCheck() error {
	return s.db.Ping()
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}
