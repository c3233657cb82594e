package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

var (
	ErrInsufficientStock = errors.New("insufficient perfume stock")
	ErrEmptyPatch        = errors.New("patch has no fields")
)

// DuplicateKey reports whether err is a unique-key violation and, when the
// driver says so, which key was hit (e.g. "users.idx_users_email").
func DuplicateKey(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		if i := strings.LastIndex(myErr.Message, "for key"); i >= 0 {
			return strings.Trim(myErr.Message[i+len("for key"):], " '`"), true
		}
		return "", true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	const sqliteUnique = "UNIQUE constraint failed:"
	if msg := err.Error(); strings.Contains(msg, sqliteUnique) {
		return strings.TrimSpace(msg[strings.Index(msg, sqliteUnique)+len(sqliteUnique):]), true
	}
	return "", false
}
