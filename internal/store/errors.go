package store

import "strings"

// The modernc sqlite driver reports constraint failures as plain errors
// whose text carries the SQLite message, e.g.
// "constraint failed: UNIQUE constraint failed: users.email (2067)".
// Matching on that text is the supported way to tell them apart.

// IsUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given table.column.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY constraint
// failure, typically an insert referencing a row that does not exist.
func IsForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
