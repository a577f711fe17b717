package store

// HealthStore abstracts database health checking
type HealthStore interface {
	// Ping verifies the database connection is alive.
	Ping() error
}
