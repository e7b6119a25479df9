package telemetry

import "context"

// ConnectOptions carries everything a broker connection attempt needs. The
// last-will registration rides on the connect itself so the broker flips the
// status topic even when the node drops without a clean disconnect.
type ConnectOptions struct {
	ClientID    string
	WillTopic   string
	WillPayload []byte
	WillRetain  bool
}

// Client is the broker transport contract. The wire protocol, timeouts and
// keep-alive mechanics are its concern; the publisher only consumes
// connect/publish primitives and their results.
type Client interface {
	Connect(ctx context.Context, opts ConnectOptions) error
	IsConnected() bool
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error

	// Tick services keep-alive and incoming-message processing. Must be
	// called frequently; a starved connection risks a server-side drop.
	Tick() error

	Disconnect() error
}

// Metric path segments under <prefix>/<deviceID>/.
const (
	MetricTVOC        = "tvoc"
	MetricECO2        = "eco2"
	MetricTemperature = "temperature"
	MetricHumidity    = "humidity"

	statusSegment = "status"
	statusOnline  = "online"
	statusOffline = "offline"
)
