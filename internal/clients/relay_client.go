// internal/clients/relay_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"authorstore/internal/checkout"
)

const instrumentationName = "authorstore/internal/clients"

// RelayClient posts orders to the form relay endpoint. The relay answers
// opaquely, so only transport failures are reported.
type RelayClient struct {
	url       string
	client    *http.Client
	logger    *zap.Logger
	submitted metric.Int64Counter
}

// RelayOption configures a RelayClient.
type RelayOption func(*relayOptions)

type relayOptions struct {
	meters metric.MeterProvider
}

// WithMeterProvider records submissions on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) RelayOption {
	return func(o *relayOptions) { o.meters = mp }
}

func NewRelayClient(url string, timeout time.Duration, logger *zap.Logger, opts ...RelayOption) (*RelayClient, error) {
	o := relayOptions{meters: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}

	counter, err := o.meters.Meter(instrumentationName).Int64Counter(
		"relay.submissions",
		metric.WithDescription("Order submissions attempted against the relay, by outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("create relay counter: %w", err)
	}
	return &RelayClient{
		url:       url,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		submitted: counter,
	}, nil
}

func (c *RelayClient) Submit(ctx context.Context, order checkout.Order) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "RelayClient.Submit")
	defer span.End()

	body, err := json.Marshal(order.Payload())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay unreachable")
		c.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return fmt.Errorf("post order to relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "sent")))
	c.logger.Debug("order relayed", zap.Int("status", resp.StatusCode))
	return nil
}
