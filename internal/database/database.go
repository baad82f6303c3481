package database

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"restocall/internal/models"
)

type DB struct {
	conn *sql.DB
}

// Init opens the SQLite database, applies WAL mode, and runs migrations.
func Init(path string) *DB {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		log.Fatalf("database: failed to open: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("database: failed to ping: %v", err)
	}

	// Limit concurrent writers to avoid SQLITE_BUSY beyond the busy_timeout.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	db.migrate()
	log.Println("database: ready")
	return db
}

func (db *DB) migrate() {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS complaints (
id              TEXT PRIMARY KEY,
phone           TEXT NOT NULL,
issue           TEXT NOT NULL,
order_date_hint TEXT NOT NULL DEFAULT 'unspecified',
location_id     TEXT,
session_id      TEXT,
language        TEXT NOT NULL DEFAULT 'fr',
status          TEXT NOT NULL DEFAULT 'new',
created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS customers (
phone        TEXT PRIMARY KEY,
name         TEXT NOT NULL DEFAULT '',
address      TEXT NOT NULL DEFAULT '',
location_id  TEXT,
total_orders INTEGER NOT NULL DEFAULT 0,
created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
	}

	for _, stmt := range migrations {
		if _, err := db.conn.Exec(stmt); err != nil {
			log.Fatalf("database: migration failed: %v", err)
		}
	}
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// ─── Complaints ───────────────────────────────────────────────────────────────

// InsertComplaint stores a complaint, filling id, status and defaults in
// place when absent.
func (db *DB) InsertComplaint(c *models.Complaint) error {
	if c.ID == "" {
		c.ID = "cmp_" + uuid.NewString()
	}
	if c.OrderDateHint == "" {
		c.OrderDateHint = "unspecified"
	}
	if c.SessionID == "" {
		c.SessionID = "unknown"
	}
	if c.Language == "" {
		c.Language = "fr"
	}
	if c.Status == "" {
		c.Status = "new"
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := db.conn.Exec(
		`INSERT INTO complaints(id, phone, issue, order_date_hint, location_id, session_id, language, status, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Phone, c.Issue, c.OrderDateHint, c.LocationID, c.SessionID, c.Language, c.Status, c.CreatedAt,
	)
	return err
}

// ListComplaints returns all complaints, newest first.
func (db *DB) ListComplaints() ([]models.Complaint, error) {
	rows, err := db.conn.Query(
		`SELECT id, phone, issue, order_date_hint, location_id, session_id, language, status, created_at
		 FROM complaints
		 ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		var c models.Complaint
		var locationID, sessionID sql.NullString
		if err := rows.Scan(&c.ID, &c.Phone, &c.Issue, &c.OrderDateHint, &locationID, &sessionID, &c.Language, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.LocationID = locationID.String
		c.SessionID = sessionID.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetComplaintStatus moves a complaint between new/reviewed/closed.
func (db *DB) SetComplaintStatus(id, status string) error {
	if status != "new" && status != "reviewed" && status != "closed" {
		return sql.ErrNoRows
	}
	res, err := db.conn.Exec(`UPDATE complaints SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ─── Customers ────────────────────────────────────────────────────────────────

// NormalizePhone strips everything but digits so directory lookups match
// however the number was spoken or typed.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LookupCustomer finds a customer by normalized phone. Returns (nil, nil)
// when the customer is unknown.
func (db *DB) LookupCustomer(phone string) (*models.Customer, error) {
	norm := NormalizePhone(phone)
	if norm == "" {
		return nil, nil
	}

	var c models.Customer
	var locationID sql.NullString
	err := db.conn.QueryRow(
		`SELECT phone, name, address, location_id, total_orders, created_at, updated_at
		 FROM customers WHERE phone = ?`, norm,
	).Scan(&c.Phone, &c.Name, &c.Address, &locationID, &c.TotalOrders, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.LocationID = locationID.String
	return &c, nil
}

// UpsertCustomer creates or updates a directory record keyed by normalized
// phone. Empty fields on update leave the stored values alone; TotalOrders
// takes the larger of stored and given.
func (db *DB) UpsertCustomer(c *models.Customer) error {
	norm := NormalizePhone(c.Phone)
	if norm == "" {
		return nil
	}
	now := time.Now()

	_, err := db.conn.Exec(
		`INSERT INTO customers(phone, name, address, location_id, total_orders, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(phone) DO UPDATE SET
		   name         = CASE WHEN excluded.name != '' THEN excluded.name ELSE customers.name END,
		   address      = CASE WHEN excluded.address != '' THEN excluded.address ELSE customers.address END,
		   location_id  = COALESCE(NULLIF(excluded.location_id, ''), customers.location_id),
		   total_orders = MAX(customers.total_orders, excluded.total_orders),
		   updated_at   = excluded.updated_at`,
		norm, c.Name, c.Address, c.LocationID, c.TotalOrders, now, now,
	)
	return err
}

// BumpCustomerOrders increments a customer's order count, creating the record
// if needed.
func (db *DB) BumpCustomerOrders(phone string) error {
	norm := NormalizePhone(phone)
	if norm == "" {
		return nil
	}
	now := time.Now()

	_, err := db.conn.Exec(
		`INSERT INTO customers(phone, total_orders, created_at, updated_at)
		 VALUES(?, 1, ?, ?)
		 ON CONFLICT(phone) DO UPDATE SET
		   total_orders = customers.total_orders + 1,
		   updated_at   = excluded.updated_at`,
		norm, now, now,
	)
	return err
}
