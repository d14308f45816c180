package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens a SQLite database.
//
// In-memory databases are pinned to a single connection so every caller sees the same
// data. File databases get foreign keys, a busy timeout and BEGIN IMMEDIATE transactions,
// so writers queue on the lock instead of failing at commit.
func New(dataSourceName string) (*DB, error) {
	memory := isMemory(dataSourceName)
	dsn := dataSourceName
	if !memory {
		dsn = withPragmas(dataSourceName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if memory {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

func withPragmas(dsn string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_txlock=immediate",
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	migration := `
-- Cities. Statistics columns are written only by the statistics repository.
CREATE TABLE IF NOT EXISTS cities (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    province TEXT NOT NULL DEFAULT '',
    country TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    is_active INTEGER NOT NULL DEFAULT 1,
    total_buildings INTEGER NOT NULL DEFAULT 0 CHECK(total_buildings >= 0),
    active_buildings INTEGER NOT NULL DEFAULT 0 CHECK(active_buildings >= 0 AND active_buildings <= total_buildings),
    total_spaces INTEGER NOT NULL DEFAULT 0 CHECK(total_spaces >= 0),
    active_spaces INTEGER NOT NULL DEFAULT 0 CHECK(active_spaces >= 0 AND active_spaces <= total_spaces),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
-- Placeholder cities have no name yet and must not collide.
CREATE UNIQUE INDEX IF NOT EXISTS idx_cities_name ON cities(name COLLATE NOCASE) WHERE name <> '';
CREATE INDEX IF NOT EXISTS idx_cities_province ON cities(province COLLATE NOCASE);

-- Buildings reference cities weakly; the statistics counters track them instead of a foreign key.
CREATE TABLE IF NOT EXISTS buildings (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand TEXT NOT NULL,
    city_id TEXT NOT NULL,
    address TEXT NOT NULL,
    location_city TEXT NOT NULL,
    province TEXT NOT NULL,
    postal_code TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    description TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_buildings_name ON buildings(city_id, name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_buildings_city ON buildings(city_id);

CREATE TABLE IF NOT EXISTS spaces (
    id TEXT PRIMARY KEY,
    building_id TEXT NOT NULL,
    city_id TEXT NOT NULL,
    name TEXT NOT NULL,
    brand TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('private_office', 'meeting_room', 'hot_desk', 'dedicated_desk', 'event_space')),
    capacity INTEGER NOT NULL CHECK(capacity BETWEEN 1 AND 1000),
    price_per_hour REAL NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (building_id) REFERENCES buildings(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_spaces_name ON spaces(building_id, name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_spaces_city ON spaces(city_id);

-- Service offerings (the /services collection)
CREATE TABLE IF NOT EXISTS services (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL DEFAULT 0,
    unit TEXT NOT NULL DEFAULT '',
    tax_rate REAL NOT NULL DEFAULT 0 CHECK(tax_rate BETWEEN 0 AND 1),
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_services_name ON services(name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    space_id TEXT NOT NULL,
    service_id TEXT,
    customer_name TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK(quantity >= 1),
    unit_price REAL NOT NULL,
    tax_rate REAL NOT NULL,
    subtotal REAL NOT NULL,
    tax REAL NOT NULL,
    total REAL NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'confirmed', 'completed', 'cancelled')),
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (space_id) REFERENCES spaces(id),
    FOREIGN KEY (service_id) REFERENCES services(id)
);
CREATE INDEX IF NOT EXISTS idx_orders_space ON orders(space_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Sequence counters, one row per (entity type, year)
CREATE TABLE IF NOT EXISTS sequence_counters (
    entity_type TEXT NOT NULL,
    scope INTEGER NOT NULL,
    last_sequence INTEGER NOT NULL CHECK(last_sequence >= 0),
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (entity_type, scope)
);

-- Applied statistics events; the primary key makes re-delivery a no-op
CREATE TABLE IF NOT EXISTS city_stat_events (
    event_id TEXT PRIMARY KEY,
    city_id TEXT NOT NULL,
    child_type TEXT NOT NULL,
    event TEXT NOT NULL,
    active INTEGER NOT NULL,
    d_total_buildings INTEGER NOT NULL,
    d_active_buildings INTEGER NOT NULL,
    d_total_spaces INTEGER NOT NULL,
    d_active_spaces INTEGER NOT NULL,
    clamped INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stat_events_city ON city_stat_events(city_id, created_at);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_entity ON activity_log(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_log(created_at);

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    operator_id TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    last_used TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_api_keys_operator ON api_keys(operator_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
