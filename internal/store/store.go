package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	entities *EntityStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		entities: NewEntityStore(newQueryInterceptor(db)),
	}
}

func (s *Store) Entities() *EntityStore {
	return s.entities
}

func (s *Store) Close() error {
	return s.db.Close()
}
