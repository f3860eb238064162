package seeder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// Runner posts generated events to a running graphiti instance.
type Runner struct {
	baseURL string
	client  *http.Client
}

// NewRunner creates a runner against baseURL (e.g. "http://localhost:8095").
func NewRunner(baseURL string) *Runner {
	return &Runner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Run generates count events over spread and sends them in batches of
// batchSize. Returns the number of events accepted.
func (r *Runner) Run(gen *Generator, count int, spread time.Duration, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}

	events := gen.Generate(count, spread)
	sent := 0
	for start := 0; start < len(events); start += batchSize {
		end := start + batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := r.postBatch(events[start:end]); err != nil {
			return sent, err
		}
		sent += end - start
	}
	return sent, nil
}

func (r *Runner) postBatch(events []models.Event) error {
	body, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	resp, err := r.client.Post(r.baseURL+"/api/v1/events/batch", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("batch rejected with status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
