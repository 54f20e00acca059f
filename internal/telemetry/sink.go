package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	applog "pixelmart/internal/log"
)

// Event types emitted by the storefront.
const (
	EventSignup        = "auth.signup"
	EventLogin         = "auth.login"
	EventOrderAttempt  = "order.attempt"
	EventOrderPlaced   = "order.placed"
	EventPaymentFailed = "payment.failed"
)

type Event struct {
	Type      string         `json:"type"`
	Email     string         `json:"email,omitempty"`
	Success   bool           `json:"success"`
	Fields    map[string]any `json:"fields,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink receives best-effort events. Emit must never block the caller or
// report failure; Close waits for in-flight deliveries.
type Sink interface {
	Emit(ctx context.Context, e Event)
	Close() error
}

type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}
func (NopSink) Close() error                { return nil }

const sendTimeout = 5 * time.Second

// HTTPSink POSTs each event as JSON to a collector endpoint.
type HTTPSink struct {
	url    string
	client *http.Client
	wg     sync.WaitGroup
}

func NewHTTPSink(url string) *HTTPSink {
	return &HTTPSink{
		url: url,
		client: &http.Client{
			Timeout:   sendTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *HTTPSink) Emit(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		if err := s.send(ctx, e); err != nil {
			applog.Error(nil, "telemetry.http.fail", err, map[string]any{"event": e.Type})
		}
	}()
}

func (s *HTTPSink) send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) Close() error {
	s.wg.Wait()
	return nil
}

// MultiSink fans an event out to every sink.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
