package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

// maxBodySize caps how much of an HTTP response is decoded (64MB).
const maxBodySize = 64 << 20

// DefaultQuery is the query used for PostgreSQL sources when none is configured.
const DefaultQuery = "SELECT code FROM reference_items"

// Source fetches the raw reference dataset.
type Source interface {
	// Fetch returns every record of the dataset.
	Fetch(ctx context.Context) ([]Record, error)

	// Name identifies the source in logs and status output.
	Name() string
}

// NewSource picks an implementation from the shape of location:
// postgres:// and postgresql:// URLs query a database, http(s) URLs are
// fetched over HTTP, anything else is read as a local file.
func NewSource(location, query string) Source {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return &PostgresSource{URL: location, Query: query}
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return &HTTPSource{URL: location}
	default:
		return &FileSource{Path: location}
	}
}

// HTTPSource fetches a JSON array of records from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.URL }

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Record, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", s.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return decodeJSON(data)
}

// FileSource reads records from a local JSON or YAML file.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s *FileSource) Name() string { return s.Path }

// Fetch implements Source. Files ending in .yaml or .yml are decoded as
// YAML; everything else as JSON.
func (s *FileSource) Fetch(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// PostgresSource reads codes with a single-column query.
type PostgresSource struct {
	URL   string
	Query string
}

// Name implements Source. The URL is reduced to host and database so
// credentials never reach the logs.
func (s *PostgresSource) Name() string {
	cfg, err := pgx.ParseConfig(s.URL)
	if err != nil {
		return "postgres"
	}
	return fmt.Sprintf("postgres://%s/%s", cfg.Host, cfg.Database)
}

// Fetch implements Source. NULL codes are skipped.
func (s *PostgresSource) Fetch(ctx context.Context) ([]Record, error) {
	poolConfig, err := pgxpool.ParseConfig(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	query := s.Query
	if query == "" {
		query = DefaultQuery
	}

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reference codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[*string])
	if err != nil {
		return nil, fmt.Errorf("scan reference codes: %w", err)
	}

	records := make([]Record, 0, len(codes))
	for _, c := range codes {
		if c == nil {
			continue
		}
		records = append(records, Record{Code: *c})
	}
	return records, nil
}

// decodeJSON decodes an array of objects. Objects whose code is missing or
// not a string contribute nothing; they cannot equal an uploaded field.
func decodeJSON(data []byte) ([]Record, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fromMaps(raw), nil
}

// decodeYAML decodes a sequence of mappings. Unlike JSON, unquoted numeric
// codes are kept as their literal text.
func decodeYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return records, nil
}

func fromMaps(raw []map[string]any) []Record {
	records := make([]Record, 0, len(raw))
	for _, obj := range raw {
		code, ok := obj["code"].(string)
		if !ok {
			continue
		}
		records = append(records, Record{Code: code})
	}
	return records
}
