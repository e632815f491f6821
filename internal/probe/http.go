package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/cedula/pkg/logger"
)

// requestIDHeader matches the header the service echoes.
const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request tagged with a fresh request ID.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.New().String()
	req.Header.Set(requestIDHeader, id)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, id, fmt.Errorf("request failed: %w", err)
	}
	return resp, id, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// validateURL builds the validation URL for ci.
func validateURL(baseURL, ci string) string {
	return strings.TrimRight(baseURL, "/") + "/validar/" + url.PathEscape(ci)
}

// submitCases sends every case through a bounded worker pool and verifies
// each response. Outcomes are returned in input order.
func submitCases(ctx context.Context, config *Config, cases []Case, stats *Stats) []Outcome {
	logger.Get().Info(ctx, "submitting cases", logger.Int("cases", len(cases)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	outcomes := make([]Outcome, len(cases))

	var submitted, matched, mismatched, failed int64

	type job struct {
		idx int
		c   Case
	}
	jobs := make(chan job, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out := submitSingleCase(ctx, client, config.BaseURL, j.c)
				outcomes[j.idx] = out

				atomic.AddInt64(&submitted, 1)
				switch {
				case out.Status == 0:
					atomic.AddInt64(&failed, 1)
				case out.Err != nil:
					atomic.AddInt64(&mismatched, 1)
				default:
					atomic.AddInt64(&matched, 1)
				}

				if config.Verbose {
					logger.Get().Info(ctx, "case verified",
						logger.String("ci", out.Case.CI),
						logger.String("label", out.Case.Label),
						logger.Int("status", out.Status),
						logger.String("request_id", out.RequestID),
						logger.Any("error", out.Err))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, c := range cases {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, c: c}:
			}
		}
	}()

	wg.Wait()

	stats.CasesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.CasesMatched = int(atomic.LoadInt64(&matched))
	stats.CasesMismatch = int(atomic.LoadInt64(&mismatched))
	stats.CasesFailed = int(atomic.LoadInt64(&failed))

	// Jobs are queued in order, so a cancelled run leaves a prefix.
	return outcomes[:stats.CasesSubmitted]
}

// submitSingleCase sends one case and verifies the response.
func submitSingleCase(ctx context.Context, client *HTTPClient, baseURL string, c Case) Outcome {
	out := Outcome{Case: c}

	resp, id, err := client.Get(ctx, validateURL(baseURL, c.CI))
	out.RequestID = id
	if err != nil {
		out.Err = err
		return out
	}
	body, err := readResponseBody(resp)
	if err != nil {
		out.Err = fmt.Errorf("failed to read body: %w", err)
		return out
	}
	out.Status = resp.StatusCode

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		out.Err = fmt.Errorf("%w: body is not json: %w", ErrProbeMismatch, err)
		return out
	}
	out.Err = verifyResponse(c, resp.StatusCode, resp.Header.Get("Content-Type"), resp.Header.Get(requestIDHeader), id, parsed)
	return out
}
