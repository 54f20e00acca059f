package telemetry

import (
	"database/sql"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OpenDB opens a traced database handle. driverName is "sqlite" or "postgres".
func OpenDB(driverName, dsn string) (*sql.DB, error) {
	system := semconv.DBSystemSqlite
	if driverName == "postgres" {
		system = semconv.DBSystemPostgreSQL
	}
	return otelsql.Open(driverName, dsn, otelsql.WithAttributes(system))
}
