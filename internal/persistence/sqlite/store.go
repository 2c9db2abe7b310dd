package sqlite

import "context"

// Store bundles the SQLite-backed repositories behind a single handle whose
// lifecycle is owned by process startup and shutdown.
type Store struct {
	pool *ConnectionPool

	Users     *UserRepository
	Schedules *ScheduleRepository
}

// Open opens the database at dsn and wires the repositories.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{
		pool:      pool,
		Users:     NewUserRepository(pool),
		Schedules: NewScheduleRepository(pool),
	}, nil
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return s.pool.Migrate(ctx)
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}
