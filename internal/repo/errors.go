package repo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

// DuplicateKeyError reports a unique-constraint violation with the offending
// field and value, so callers can tell dedup races apart from user input
// collisions without parsing engine-specific text themselves.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s <%s> already exists", e.Field, e.Value)
}

// uniqueKeyFields maps unique index names to the field label reported back to
// API consumers.
var uniqueKeyFields = map[string]string{
	"uk_bucket_name":   "name",
	"uk_obj_hash_size": "hash+size",
	"uk_obj_path":      "path",
}

// MySQL 1062 message: Duplicate entry '<value>' for key '<table>.<index>'
var duplicateEntryPattern = regexp.MustCompile(`Duplicate entry '(.*)' for key '([^']+)'`)

// ClassifyError converts a MySQL duplicate-key failure into a typed
// DuplicateKeyError. Detection relies on the driver's structured error number;
// the message is only parsed to recover the field label and value. Any other
// error passes through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysqlDriver.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return err
	}

	field := "key"
	value := ""
	if m := duplicateEntryPattern.FindStringSubmatch(mysqlErr.Message); m != nil {
		value = m[1]
		index := m[2]
		if dot := strings.LastIndex(index, "."); dot >= 0 {
			index = index[dot+1:]
		}
		if label, ok := uniqueKeyFields[index]; ok {
			field = label
		} else {
			field = index
		}
	}
	return &DuplicateKeyError{Field: field, Value: value}
}

// IsDuplicateKey reports whether err is a unique violation on the given field
// label (empty field matches any duplicate-key error).
func IsDuplicateKey(err error, field string) bool {
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		return false
	}
	return field == "" || dup.Field == field
}
