package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/lib/pq"   // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// dialect captures the few places where SQLite and Postgres differ. Queries otherwise use
// the common subset: $n placeholders, ON CONFLICT upserts and RETURNING.
type dialect struct {
	name string
	// claimLock is appended to the claim subquery.
	claimLock       string
	migrationDriver func(db *sql.DB) (database.Driver, error)
}

var sqliteDialect = dialect{
	name: "sqlite",
	migrationDriver: func(db *sql.DB) (database.Driver, error) {
		return sqlite.WithInstance(db, &sqlite.Config{})
	},
}

var postgresDialect = dialect{
	name:      "postgres",
	claimLock: " FOR UPDATE SKIP LOCKED",
	migrationDriver: func(db *sql.DB) (database.Driver, error) {
		return postgres.WithInstance(db, &postgres.Config{})
	},
}

// args accumulates positional query arguments.
type args struct {
	values []interface{}
}

// add appends a value and returns its placeholder.
func (a *args) add(v interface{}) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// list appends every value and returns a comma separated placeholder list.
func (a *args) list(values []interface{}) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = a.add(v)
	}
	return strings.Join(placeholders, ", ")
}
