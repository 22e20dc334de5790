package repository

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/config"
	"github.com/otvkatibe/riot-backend/internal/database"
)

var testDBCounter atomic.Int64

// testDB opens a migrated in-memory database. The shared-cache DSN keeps
// every pooled connection on the same database; the counter keeps tests
// isolated from each other.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := database.New(&config.Config{DBPath: dsn}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
