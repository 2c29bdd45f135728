package database

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"kanban/pkg/utils"
)

// SQLStore keeps board state in the kv_store table of a SQLite or
// PostgreSQL database.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore wraps an open connection. The schema must already exist.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) bind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	// lib/pq wants $n placeholders
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Get returns the stored value for key.
func (s *SQLStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(s.bind("SELECT value FROM kv_store WHERE name = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		utils.WithFields(logrus.Fields{"key": key, "driver": s.driver}).Warnf("read failed: %v", err)
		return "", false
	}
	return value, true
}

// Set upserts key.
func (s *SQLStore) Set(key, value string) {
	_, err := s.db.Exec(s.bind(`
		INSERT INTO kv_store (name, value, updated) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated = CURRENT_TIMESTAMP
	`), key, value)
	if err != nil {
		utils.WithFields(logrus.Fields{"key": key, "driver": s.driver}).Warnf("write failed: %v", err)
		return
	}
	utils.Log("Stored %s (%d bytes)", key, len(value))
}
