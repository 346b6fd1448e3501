package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/storefront/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface on a single read_models
// table. Payloads are stored as JSONB and decoded back into the concrete
// view type for their collection.
type PostgresReadStore struct {
	db *sql.DB
	mu sync.Mutex // Update needs read-modify-write
}

func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// InitReadSchema creates the read model table if it does not exist.
func InitReadSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS read_models (
			collection VARCHAR(64) NOT NULL,
			id VARCHAR(255) NOT NULL,
			payload JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		)
	`)
	return err
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[PostgresReadStore] Error marshaling %s/%s: %v", collection, id, err)
		return
	}

	_, err = rs.db.Exec(`
		INSERT INTO read_models (collection, id, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, collection, id, payload, time.Now())
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting %s/%s: %v", collection, id, err)
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	var payload []byte
	err := rs.db.QueryRow(`
		SELECT payload FROM read_models WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&payload)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting %s/%s: %v", collection, id, err)
		}
		return nil, false
	}

	return decodePayload(collection, id, payload)
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rows, err := rs.db.Query(`
		SELECT id, payload FROM read_models WHERE collection = $1 ORDER BY updated_at DESC
	`, collection)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing %s: %v", collection, err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			log.Printf("[PostgresReadStore] Error scanning %s row: %v", collection, err)
			continue
		}
		if item, ok := decodePayload(collection, id, payload); ok {
			items = append(items, item)
		}
	}
	return items
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	_, err := rs.db.Exec("DELETE FROM read_models WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting %s/%s: %v", collection, id, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, ok := rs.Get(collection, id)
	if !ok {
		return false
	}
	rs.Set(collection, id, updateFn(current))
	return true
}

// decodePayload revives the concrete view type for a collection. Unknown
// collections come back as raw maps.
func decodePayload(collection, id string, payload []byte) (any, bool) {
	var target any
	switch collection {
	case "carts":
		target = &readmodel.CartView{}
	case "selections":
		target = &readmodel.SelectionView{}
	case "orders":
		target = &readmodel.OrderView{}
	default:
		target = &map[string]any{}
	}

	if err := json.Unmarshal(payload, target); err != nil {
		log.Printf("[PostgresReadStore] Error decoding %s/%s: %v", collection, id, err)
		return nil, false
	}
	return target, true
}
