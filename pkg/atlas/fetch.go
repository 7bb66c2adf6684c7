package atlas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-rotor/pkg/config"
	"github.com/opd-ai/go-rotor/pkg/logging"
)

// maxAssetBytes bounds a single fetched asset.
const maxAssetBytes = 32 << 20

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Operation is a unit of work guarded by the circuit breaker.
type Operation func() error

// FetchService reads atlas assets from local paths or http(s) URLs. Remote
// requests run through a circuit breaker with bounded retries so a dead asset
// host fails fast instead of stalling every load.
type FetchService struct {
	breaker *gobreaker.CircuitBreaker
	client  *http.Client
	logger  *logging.Logger
	config  config.FetchConfig
}

// NewFetchService creates a FetchService. A nil client uses one with the
// configured timeout.
func NewFetchService(cfg config.FetchConfig, client *http.Client, logger *logging.Logger) *FetchService {
	if logger == nil {
		logger = logging.Discard()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	settings := gobreaker.Settings{
		Name:        "atlas-fetch",
		MaxRequests: uint32(cfg.BreakerMaxRequests),
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerMaxFailures)
		},
		IsSuccessful: func(err error) bool {
			// Client-side mistakes say nothing about the host's health.
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to,
			)
		},
	}

	return &FetchService{
		breaker: gobreaker.NewCircuitBreaker(settings),
		client:  client,
		logger:  logger,
		config:  cfg,
	}
}

// Execute runs an operation through the circuit breaker. An open circuit
// returns immediately with gobreaker.ErrOpenState.
func (fs *FetchService) Execute(ctx context.Context, operation Operation) error {
	_, err := fs.breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err != nil {
		fs.logger.LogWithContext(ctx, slog.LevelDebug, "circuit breaker execution failed",
			"error", err,
			"state", fs.breaker.State(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}

	return nil
}

// ExecuteWithRetry runs an operation up to MaxRetries times with a linearly
// growing delay. It stops early when the circuit opens, the error is not
// retryable, or ctx is done.
func (fs *FetchService) ExecuteWithRetry(ctx context.Context, operation Operation) error {
	maxRetries := fs.config.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fs.Execute(ctx, operation)
		if err == nil {
			return nil
		}

		if fs.breaker.State() == gobreaker.StateOpen || errors.Is(err, gobreaker.ErrOpenState) {
			fs.logger.Warn(ctx, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_retries", maxRetries,
			)
			return err
		}

		if !retryable(err) {
			return err
		}

		if attempt == maxRetries-1 {
			return fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, err)
		}

		delay := time.Duration(attempt+1) * fs.config.RetryDelay
		fs.logger.Warn(ctx, "fetch failed, retrying",
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("unexpected exit from retry loop")
}

// Fetch returns the bytes at location, a file path or an http(s) URL.
func (fs *FetchService) Fetch(ctx context.Context, location string) ([]byte, error) {
	if !IsRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return data, nil
	}

	var data []byte
	err := fs.ExecuteWithRetry(ctx, func() error {
		var err error
		data, err = fs.get(ctx, location)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (fs *FetchService) get(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := fs.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: location, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset %s exceeds %d bytes", location, maxAssetBytes)
	}
	return data, nil
}

// GetState returns the current state of the circuit breaker.
func (fs *FetchService) GetState() gobreaker.State {
	return fs.breaker.State()
}

// GetCounts returns the breaker's failure/success counts.
func (fs *FetchService) GetCounts() gobreaker.Counts {
	return fs.breaker.Counts()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Resolve interprets ref relative to the metadata location base.
func Resolve(base, ref string) (string, error) {
	if IsRemote(ref) || filepath.IsAbs(ref) {
		return ref, nil
	}

	if IsRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid atlas URL %s: %w", base, err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid image reference %s: %w", ref, err)
		}
		return b.ResolveReference(r).String(), nil
	}

	return filepath.Join(filepath.Dir(base), ref), nil
}
