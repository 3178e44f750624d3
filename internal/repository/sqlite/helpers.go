package sqlite

import (
	"database/sql"
	"time"
)

// nullTime maps a zero time to NULL for nullable DATETIME columns.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
