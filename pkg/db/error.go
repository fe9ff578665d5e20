package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsConstraintErr reports whether the store rejected a write because of its
// content: integrity violations and values the column type cannot hold.
func IsConstraintErr(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 22xxx data exception, 23xxx integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
	}

	msg := err.Error()

	// SQLite
	if strings.Contains(msg, "constraint failed") {
		return true
	}

	// MySQL 1048 column cannot be null, 1062 duplicate, 1292 incorrect value, 1366 incorrect type
	for _, code := range []string{"Error 1048", "Error 1062", "Error 1292", "Error 1366"} {
		if strings.Contains(msg, code) {
			return true
		}
	}

	return false
}

// IsConnectionErr reports whether err means the store could not be reached or
// the connection was lost mid-statement.
func IsConnectionErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08xxx connection exception, 57P0x operator intervention, 53300 too many connections
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P0") ||
			pgErr.Code == "53300"
	}

	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "invalid connection") ||
		strings.Contains(msg, "connection refused")
}
