package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Quota costs of the Data API calls made by this tool
const (
	SearchCost     = 100
	VideoListCost  = 1
	ResultsPerPage = 50
)

// QuotaOperation is a single ledger entry
type QuotaOperation struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Units     int       `json:"units"`
}

type quotaLedger struct {
	Used       int              `json:"used"`
	LastReset  time.Time        `json:"last_reset"`
	Operations []QuotaOperation `json:"operations"`
}

// QuotaSummary describes the state of the daily quota
type QuotaSummary struct {
	Used       int     `json:"used"`
	Limit      int     `json:"limit"`
	Remaining  int     `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// QuotaTracker persists daily API quota usage. The ledger resets when the
// local calendar day changes.
type QuotaTracker struct {
	path  string
	limit int

	mu     sync.Mutex
	ledger quotaLedger
}

// EstimateQuota approximates the units a search run of maxResults costs:
// one search call per page and one unit per video detail lookup
func EstimateQuota(maxResults int) int {
	searches := maxResults/ResultsPerPage + 1
	return searches*SearchCost + maxResults*VideoListCost
}

// NewQuotaTracker loads the ledger at path, starting a fresh one if it is
// missing or from a previous day
func NewQuotaTracker(path string, limit int) (*QuotaTracker, error) {
	q := &QuotaTracker{path: path, limit: limit}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		q.ledger = freshLedger()
	case err != nil:
		return nil, fmt.Errorf("reading quota ledger: %w", err)
	default:
		if err := json.Unmarshal(data, &q.ledger); err != nil {
			return nil, fmt.Errorf("parsing quota ledger: %w", err)
		}
	}

	q.resetIfStale()
	return q, nil
}

func freshLedger() quotaLedger {
	return quotaLedger{LastReset: nowFunc(), Operations: []QuotaOperation{}}
}

func (q *QuotaTracker) resetIfStale() {
	now := nowFunc().Local()
	last := q.ledger.LastReset.Local()
	y1, m1, d1 := last.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		if last.Before(now) {
			q.ledger = freshLedger()
		}
	}
}

// Check reports whether required units are still available today
func (q *QuotaTracker) Check(required int) (bool, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfStale()
	remaining := q.limit - q.ledger.Used
	return remaining >= required, remaining
}

// Use records an API call and persists the ledger
func (q *QuotaTracker) Use(units int, operation string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfStale()
	q.ledger.Used += units
	q.ledger.Operations = append(q.ledger.Operations, QuotaOperation{
		Timestamp: nowFunc(),
		Operation: operation,
		Units:     units,
	})

	logger.Debug("quota used",
		zap.String("operation", operation),
		zap.Int("units", units),
		zap.Int("used", q.ledger.Used))
	return q.save()
}

// Summary returns current usage against the daily limit
func (q *QuotaTracker) Summary() QuotaSummary {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.resetIfStale()
	s := QuotaSummary{
		Used:      q.ledger.Used,
		Limit:     q.limit,
		Remaining: q.limit - q.ledger.Used,
	}
	if q.limit > 0 {
		s.Percentage = float64(q.ledger.Used) / float64(q.limit) * 100
	}
	return s
}

// Operations returns a copy of today's ledger entries
func (q *QuotaTracker) Operations() []QuotaOperation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]QuotaOperation(nil), q.ledger.Operations...)
}

// save writes the ledger through a temp file and rename. Callers hold mu.
func (q *QuotaTracker) save() error {
	data, err := json.MarshalIndent(q.ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling quota ledger: %w", err)
	}

	err = writeFileAtomic(q.path, 0644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("saving quota ledger: %w", err)
	}
	return nil
}
