package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

const (
	defaultWaitStatus   = 200
	defaultWaitTimeout  = 30 * time.Second
	defaultWaitInterval = 500 * time.Millisecond
	waitRequestTimeout  = 5 * time.Second
)

// ErrServiceNotReady is returned when the waitFor URL never answered with the
// expected status.
var ErrServiceNotReady = errors.New("service not ready")

// waitForService polls the configured URL until it returns the expected
// status code or times out. It runs once per Runner.
func (r *Runner) waitForService(ctx context.Context) error {
	cfg := r.config.Global.WaitFor
	if cfg == nil || cfg.URL == "" || r.waited {
		return nil
	}

	expectedStatus := cfg.Status
	if expectedStatus == 0 {
		expectedStatus = defaultWaitStatus
	}
	timeout := defaultWaitTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Millisecond
	}
	interval := defaultWaitInterval
	if cfg.Interval > 0 {
		interval = time.Duration(cfg.Interval) * time.Millisecond
	}

	log := logging.FromContext(ctx).WithComponent("runner")
	log.Info("waiting for service", "url", cfg.URL, "status", expectedStatus, "timeout", timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	var lastStatus int

	for {
		req := http.NewRequest("GET", cfg.URL).SetTimeout(waitRequestTimeout)
		resp, err := r.client.Do(ctx, req)
		if err != nil {
			lastErr = err
		} else {
			lastStatus = resp.StatusCode
			if resp.StatusCode == expectedStatus {
				log.Info("service is ready", "url", cfg.URL, "status", resp.StatusCode)
				r.waited = true
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%w: %s after %v: %v", ErrServiceNotReady, cfg.URL, timeout, lastErr)
			}
			return fmt.Errorf("%w: %s after %v: got status %d, expected %d",
				ErrServiceNotReady, cfg.URL, timeout, lastStatus, expectedStatus)
		case <-time.After(interval):
		}
	}
}
