// Package repository holds the SQL data access for every content table.
// Repositories take an injected *sql.DB and return the sentinel errors
// below so handlers can map failures onto HTTP statuses.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when an id does not resolve to a row, including
// updates and deletes that affect zero rows.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when an admin username is already taken.
var ErrUsernameExists = errors.New("username already exists")

// isDuplicateKey reports whether err is a unique key violation (MySQL 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "1062")
}
