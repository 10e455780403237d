package repository

// Models lists the repository-private table models so callers can include
// them in schema migration.
func Models() []any {
	return []any{&AppointmentModel{}}
}
