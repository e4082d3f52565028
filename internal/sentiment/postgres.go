package sentiment

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

const selectSentiment = `SELECT name, address, service_score, availability_score
	FROM pharmacy_sentiment ORDER BY name`

// PostgresSource reads the dataset from the pharmacy_sentiment table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

// Load returns every row with both scores present; NULL and non-finite scores
// are excluded.
func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, selectSentiment)
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

func finiteScore(v sql.NullFloat64) bool {
	return v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0)
}
