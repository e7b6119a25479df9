package telemetry

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
	"github.com/eclipse/paho.golang/paho"
)

const (
	connectTimeout = 10 * time.Second
	keepAliveSecs  = 30
)

// PahoClient implements Client over eclipse/paho.golang. Each connect dials
// a fresh TCP session and builds a new MQTT client around it; keep-alive and
// inbound packets are serviced by the library's own goroutines, so Tick only
// has liveness to report.
type PahoClient struct {
	broker     string
	client     *paho.Client
	connected  atomic.Bool
	errFactory errors.Factory
}

// NewPahoClient creates a client for broker in host:port form.
func NewPahoClient(broker string) (*PahoClient, error) {
	errFactory := errors.New()

	if _, _, err := net.SplitHostPort(broker); err != nil {
		return nil, errFactory.Wrap(ErrInvalidBroker, err)
	}

	return &PahoClient{
		broker:     broker,
		errFactory: errFactory,
	}, nil
}

// Connect dials the broker and performs the MQTT connect handshake,
// registering the last-will atomically with the connection attempt.
func (c *PahoClient) Connect(ctx context.Context, opts ConnectOptions) error {
	conn, err := net.DialTimeout("tcp", c.broker, connectTimeout)
	if err != nil {
		return c.errFactory.Wrap(ErrConnectFailed, err)
	}

	client := paho.NewClient(paho.ClientConfig{
		ClientID: opts.ClientID,
		Conn:     conn,
		OnServerDisconnect: func(d *paho.Disconnect) {
			c.connected.Store(false)
			logger.Debug().Uint8("reason_code", uint8(d.ReasonCode)).Msg("Broker disconnected session")
		},
		OnClientError: func(err error) {
			c.connected.Store(false)
			logger.Debug().Err(err).Msg("Broker client error")
		},
	})

	cp := &paho.Connect{
		ClientID:   opts.ClientID,
		KeepAlive:  keepAliveSecs,
		CleanStart: true,
	}
	if opts.WillTopic != "" {
		cp.WillMessage = &paho.WillMessage{
			Topic:   opts.WillTopic,
			Payload: opts.WillPayload,
			Retain:  opts.WillRetain,
			QoS:     1,
		}
	}

	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	ca, err := client.Connect(connCtx, cp)
	if err != nil {
		conn.Close()
		return c.errFactory.Wrap(ErrConnectFailed, err)
	}
	if ca.ReasonCode != 0 {
		conn.Close()
		return c.errFactory.WithData(ErrConnectFailed, struct {
			ReasonCode uint8
		}{ca.ReasonCode})
	}

	c.client = client
	c.connected.Store(true)

	return nil
}

// IsConnected reports the session state as last observed by the library's
// disconnect callbacks.
func (c *PahoClient) IsConnected() bool {
	return c.connected.Load()
}

// Publish sends payload at QoS 1 and returns the broker's accept/reject
// result.
func (c *PahoClient) Publish(ctx context.Context, topic string, payload []byte, retained bool) error {
	if !c.connected.Load() || c.client == nil {
		return c.errFactory.New(ErrNotConnected)
	}

	if _, err := c.client.Publish(ctx, &paho.Publish{
		Topic:   topic,
		Payload: payload,
		Retain:  retained,
		QoS:     1,
	}); err != nil {
		return c.errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

// Tick is a liveness check only: the paho client pings and reads on its own
// goroutines.
func (c *PahoClient) Tick() error {
	if c.client != nil && !c.connected.Load() {
		return c.errFactory.New(ErrConnectionLost)
	}

	return nil
}

// Disconnect performs a clean MQTT disconnect.
func (c *PahoClient) Disconnect() error {
	if c.client == nil {
		return nil
	}

	c.connected.Store(false)

	return c.client.Disconnect(&paho.Disconnect{ReasonCode: 0})
}
