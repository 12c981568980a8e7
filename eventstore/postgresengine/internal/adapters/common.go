package adapters

import (
	"database/sql"
)

// stdRows wraps sql.Rows for the database/sql based adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

// Close also surfaces iteration errors, which database/sql only reports through Err.
func (s *stdRows) Close() error {
	if err := s.rows.Err(); err != nil {
		_ = s.rows.Close()
		return err
	}

	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}
