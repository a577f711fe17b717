// Package store defines the storage interfaces consumed by the API handlers.
//
// Each operation returns either the requested record(s) or a sentinel
// "not found" error; absence is never a panic. Implementations live in
// subpackages (currently only the GORM/Postgres one).
package store
