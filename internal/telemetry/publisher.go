package telemetry

import (
	"context"
	"strconv"

	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
)

// Publisher maintains the broker connection and publishes values under
// per-metric topics. It owns the connection state exclusively: connect
// happens on demand from Publish, and a failed publish drops the value —
// the next report cycle retries from Disconnected.
type Publisher struct {
	client    Client
	prefix    string
	deviceID  string
	connected bool

	errFactory errors.Factory
}

// NewPublisher creates a publisher for the given topic prefix and device
// identity. The identity doubles as the broker client id.
func NewPublisher(client Client, prefix, deviceID string) *Publisher {
	return &Publisher{
		client:     client,
		prefix:     prefix,
		deviceID:   deviceID,
		errFactory: errors.New(),
	}
}

// Topic resolves a metric path into a concrete topic string.
func (p *Publisher) Topic(metric string) string {
	return p.prefix + "/" + p.deviceID + "/" + metric
}

// StatusTopic is the retained online/offline topic.
func (p *Publisher) StatusTopic() string {
	return p.Topic(statusSegment)
}

// Publish sends payload to the metric's topic, connecting first when
// disconnected. A failed connect drops the value and returns the failure;
// no buffering, no retry queue.
func (p *Publisher) Publish(ctx context.Context, metric, payload string, retained bool) error {
	if !p.connected {
		if err := p.connect(ctx); err != nil {
			logger.Warn().Err(err).Str("metric", metric).Msg("Dropping telemetry value, broker unreachable")
			return err
		}
	}

	if err := p.client.Publish(ctx, p.Topic(metric), []byte(payload), retained); err != nil {
		p.connected = p.client.IsConnected()
		logger.Warn().Err(err).Str("metric", metric).Msg("Telemetry publish failed")
		return p.errFactory.Wrap(ErrPublishFailed, err)
	}

	logger.Debug().
		Str("metric", metric).
		Str("payload", payload).
		Bool("retained", retained).
		Msg("Telemetry published")

	return nil
}

// connect attempts a broker connection with the device identity as client id
// and the status topic's "offline" as a retained last-will. On success the
// retained "online" status goes out before any telemetry.
func (p *Publisher) connect(ctx context.Context) error {
	err := p.client.Connect(ctx, ConnectOptions{
		ClientID:    p.deviceID,
		WillTopic:   p.StatusTopic(),
		WillPayload: []byte(statusOffline),
		WillRetain:  true,
	})
	if err != nil {
		return p.errFactory.Wrap(ErrConnectFailed, err)
	}

	p.connected = true
	logger.Info().Str("client_id", p.deviceID).Msg("Connected to broker")

	if err := p.client.Publish(ctx, p.StatusTopic(), []byte(statusOnline), true); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish online status")
	}

	return nil
}

// Tick services the underlying connection. Call it every scheduler
// iteration; it also demotes the publisher to Disconnected when the client
// reports a dropped connection.
func (p *Publisher) Tick() {
	if err := p.client.Tick(); err != nil {
		logger.Debug().Err(err).Msg("Broker connection tick failed")
	}

	if p.connected && !p.client.IsConnected() {
		p.connected = false
		logger.Warn().Msg("Broker connection lost")
	}
}

// Close publishes a clean offline status and disconnects.
func (p *Publisher) Close(ctx context.Context) error {
	if !p.connected {
		return nil
	}

	if err := p.client.Publish(ctx, p.StatusTopic(), []byte(statusOffline), true); err != nil {
		logger.Debug().Err(err).Msg("Failed to publish offline status")
	}

	p.connected = false

	return p.client.Disconnect()
}

// FormatCount renders a gas metric as a plain decimal ASCII string.
func FormatCount(v uint16) string {
	return strconv.FormatUint(uint64(v), 10)
}

// FormatAmbient renders an ambient value as two-decimal fixed point.
func FormatAmbient(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}
