// Package llm - supervisor.go manages the out-of-process Ollama server.
package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"time"

	"github.com/sethvargo/go-retry"
)

// Supervisor brings up the local generation service when it is not already
// running and waits for it to become ready. It runs once at startup; the
// per-request path never health-checks or retries.
type Supervisor struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	cmd     *exec.Cmd
}

// NewSupervisor creates a supervisor for the Ollama server at baseURL.
// timeout bounds the whole readiness wait, including process startup.
func NewSupervisor(baseURL string, timeout time.Duration) *Supervisor {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Supervisor{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// EnsureReady probes the service, launches it if needed, and polls with
// exponential backoff until it answers or the timeout elapses.
func (s *Supervisor) EnsureReady(ctx context.Context) error {
	if s.ping(ctx) == nil {
		log.Printf("[INFO] Ollama server already running at %s", s.baseURL)
		return nil
	}

	log.Printf("[INFO] Ollama server not reachable, starting it...")
	cmd := exec.Command("ollama", "serve")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ollama: %w", err)
	}
	s.cmd = cmd

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	backoff := retry.WithMaxDuration(s.timeout, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("waiting for ollama readiness: %w", err)
	}

	log.Printf("[OK] Ollama server is ready")
	return nil
}

// Stop terminates a server process this supervisor launched. A server that
// was already running stays untouched.
func (s *Supervisor) Stop() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	return s.cmd.Process.Kill()
}

// ping issues a cheap liveness probe against the server root.
func (s *Supervisor) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
