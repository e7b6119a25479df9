package telemetry

import "codeberg.org/mutker/airnode/internal/errors"

const (
	ErrConnectFailed  = errors.ErrorCode("telemetry_connect_failed")
	ErrNotConnected   = errors.ErrorCode("telemetry_not_connected")
	ErrPublishFailed  = errors.ErrorCode("telemetry_publish_failed")
	ErrInvalidBroker  = errors.ErrorCode("telemetry_invalid_broker")
	ErrConnectionLost = errors.ErrorCode("telemetry_connection_lost")
)
