package refdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nutriscope/backend/internal/domain"
)

// Client fetches reference tables over HTTP and parses them into records
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new reference-table client. Reference tables live on
// shared static hosting, so fetches are rate limited.
func NewClient(ratePerSecond float64, burst int, timeout time.Duration) *Client {
	if ratePerSecond <= 0 {
		ratePerSecond = 2.0
	}
	if burst <= 0 {
		burst = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// maxFetchAttempts bounds retries per table fetch
const maxFetchAttempts = 3

// exponentialBackoff returns the wait before retry attempt n: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// FetchTable retrieves one CSV reference table and parses it into a
// header-keyed record list. Transient failures are retried up to 3 times;
// the caller decides whether a final failure is fatal (required dataset) or
// degrades to empty (optional dataset).
func (c *Client) FetchTable(ctx context.Context, url string) (*domain.DatasetTable, error) {
	if c.debug {
		log.Printf("[REFDATA] FetchTable: %s", url)
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.fetch(ctx, url)
		if err != nil {
			if c.debug {
				log.Printf("[REFDATA] Fetch error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if attempt == maxFetchAttempts {
				break
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		table, err := ParseCSV(body)
		body.Close()
		if err != nil {
			// A malformed body won't get better on retry
			return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrDatasetUnavailable, url, err)
		}

		if c.debug {
			log.Printf("[REFDATA] Parsed %d records (%d columns) from %s",
				len(table.Records), len(table.Columns), url)
		}
		return table, nil
	}

	return nil, lastErr
}

// fetch executes one HTTP GET and returns the body on 200
func (c *Client) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "NutriScope/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrDatasetUnavailable, resp.StatusCode, url)
	}

	return resp.Body, nil
}

// ParseCSV parses a reference table: first row is the header, every later
// row becomes a field→value record. Rows shorter than the header are padded
// with empty values; blank lines are skipped.
func ParseCSV(r io.Reader) (*domain.DatasetTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	columns := make([]string, 0, len(rows[0]))
	for _, col := range rows[0] {
		columns = append(columns, strings.TrimSpace(col))
	}

	table := &domain.DatasetTable{Columns: columns}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		record := make(domain.DatasetRecord, len(columns))
		empty := true
		for i, col := range columns {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[col] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			table.Records = append(table.Records, record)
		}
	}

	return table, nil
}
