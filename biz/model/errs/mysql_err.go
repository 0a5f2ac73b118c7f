package errs

import "github.com/go-sql-driver/mysql"

// IsDuplicatedErr reports a unique-index violation. The reconciler relies on
// this to turn a lost create race on users.provider_id into an update.
func IsDuplicatedErr(err error) bool {
	if err == nil {
		return false
	}

	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}

	return false
}
