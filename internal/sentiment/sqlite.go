package sentiment

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSource reads the dataset from a local SQLite file with the same
// pharmacy_sentiment table as the Postgres source.
type SQLiteSource struct {
	conn *sql.DB
}

func NewSQLiteSource(path string) (*SQLiteSource, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLiteSource{conn: conn}, nil
}

// NewSQLiteSourceFromDB wraps an already opened connection.
func NewSQLiteSourceFromDB(conn *sql.DB) *SQLiteSource {
	return &SQLiteSource{conn: conn}
}

func (s *SQLiteSource) Close() error {
	return s.conn.Close()
}

func (s *SQLiteSource) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.conn.QueryContext(ctx, selectSentiment)
	if err != nil {
		return nil, fmt.Errorf("query sentiment: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			r       Record
			address sql.NullString
			service sql.NullFloat64
			avail   sql.NullFloat64
		)
		if err := rows.Scan(&r.Name, &address, &service, &avail); err != nil {
			return nil, fmt.Errorf("scan sentiment: %w", err)
		}
		if !finiteScore(service) || !finiteScore(avail) {
			continue
		}
		r.Address = address.String
		r.Service = service.Float64
		r.Availability = avail.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}
