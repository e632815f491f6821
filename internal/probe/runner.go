package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/cedula/pkg/logger"
)

// usageMarker is the route hint the usage page must mention.
const usageMarker = "/validar/"

// Run executes a complete probe against config.BaseURL.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting cedula probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("count", config.Count),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("seed", config.Seed),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Check the usage page
	if err := checkUsagePage(ctx, config); err != nil {
		return fmt.Errorf("usage page check failed: %w", err)
	}

	// Step 3: Generate cases
	cases := Generate(ctx, config.Count, config.Seed)
	stats.CasesGenerated = len(cases)

	// Step 4: Submit and verify concurrently
	outcomes := submitCases(ctx, config, cases, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("probe interrupted: %w", err)
	}
	if err := firstMismatch(outcomes); err != nil {
		return fmt.Errorf("%d of %d cases failed verification: %w",
			stats.CasesMismatch+stats.CasesFailed, stats.CasesSubmitted, err)
	}

	logger.Get().Info(ctx, "probe completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, _, err := client.Get(ctx, strings.TrimRight(config.BaseURL, "/")+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnhealthy, resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// checkUsagePage verifies GET /validar/ serves the HTML usage hint.
func checkUsagePage(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, _, err := client.Get(ctx, strings.TrimRight(config.BaseURL, "/")+usageMarker)
	if err != nil {
		return fmt.Errorf("failed to fetch usage page: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read usage page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: usage status %d", ErrUnhealthy, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		return fmt.Errorf("%w: usage content type %q", ErrUnhealthy, ct)
	}
	if !strings.Contains(string(body), usageMarker) {
		return fmt.Errorf("%w: usage page does not mention %s", ErrUnhealthy, usageMarker)
	}
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var matchRate, casesPerSecond float64

	if stats.CasesSubmitted > 0 {
		matchRate = float64(stats.CasesMatched) / float64(stats.CasesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		casesPerSecond = float64(stats.CasesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("casesGenerated", stats.CasesGenerated),
		logger.Int("casesSubmitted", stats.CasesSubmitted),
		logger.Int("casesMatched", stats.CasesMatched),
		logger.Int("casesMismatch", stats.CasesMismatch),
		logger.Int("casesFailed", stats.CasesFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("matchRate", matchRate),
		logger.Float64("casesPerSecond", casesPerSecond))
}
