package sensor

import "codeberg.org/mutker/airnode/internal/errors"

const (
	ErrOpenPort        = errors.ErrorCode("sensor_open_port_failed")
	ErrNotConnected    = errors.ErrorCode("sensor_not_connected")
	ErrAlreadyOpen     = errors.ErrorCode("sensor_already_open")
	ErrNoSample        = errors.ErrorCode("sensor_no_sample")
	ErrWriteCommand    = errors.ErrorCode("sensor_write_command_failed")
	ErrReplyTimeout    = errors.ErrorCode("sensor_reply_timeout")
	ErrMalformedReply  = errors.ErrorCode("sensor_malformed_reply")
	ErrSlotOutOfRange  = errors.ErrorCode("sensor_slot_out_of_range")
	ErrEnvironmentRead = errors.ErrorCode("sensor_environment_read_failed")
	ErrShutdown        = errors.ErrorCode("sensor_shutdown_failed")
)
