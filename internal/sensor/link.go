package sensor

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the standard baud rate for the sensor head MCU.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 16

	replyTimeout = 2 * time.Second
	envCacheTTL  = 500 * time.Millisecond
)

type envReading struct {
	tempC       float32
	humidityPct float32
}

// Link talks to a serial-attached sensor head carrying the gas sensor, the
// environmental sensor and the level-bar LEDs. The head pushes measurement
// lines on its own cadence; commands are line-oriented ASCII:
//
//	-> G              query baseline        <- B <baseline>
//	-> C <baseline>   apply baseline
//	-> H <mg>         absolute humidity, mg/m3
//	-> W <0|1>        low-power control
//	-> Q              query environment     <- E <tempC*100> <rh*100>
//	-> L <i> <r> <g> <b>  stage indicator slot
//	-> X              commit staged slots
//	<- D <tvoc> <eco2>    pushed measurement
type Link struct {
	port     string
	baudRate int

	conn       serial.Port
	samples    chan Reading
	baselineCh chan uint16
	envCh      chan envReading

	mu        sync.Mutex
	connected bool
	cancel    context.CancelFunc

	lastEnv   envReading
	lastEnvAt time.Time

	errFactory errors.Factory
}

// NewLink creates a Link for the given serial port. Call Open before use.
func NewLink(port string, baudRate int) *Link {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	return &Link{
		port:       port,
		baudRate:   baudRate,
		samples:    make(chan Reading, DefaultBufferSize),
		baselineCh: make(chan uint16, 1),
		envCh:      make(chan envReading, 1),
		errFactory: errors.New(),
	}
}

// Open opens the serial port and starts the line reader.
func (l *Link) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		return l.errFactory.New(ErrAlreadyOpen)
	}

	conn, err := serial.Open(l.port, &serial.Mode{BaudRate: l.baudRate})
	if err != nil {
		return l.errFactory.Wrap(ErrOpenPort, err)
	}

	l.conn = conn
	l.connected = true

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go l.readLines(ctx)

	logger.Debug().Str("port", l.port).Int("baud", l.baudRate).Msg("Sensor head link opened")

	return nil
}

// Close stops the reader and closes the serial port.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil
	}

	l.cancel()
	l.connected = false

	if err := l.conn.Close(); err != nil {
		return l.errFactory.Wrap(ErrShutdown, err)
	}

	return nil
}

func (l *Link) readLines(ctx context.Context) {
	scanner := bufio.NewScanner(l.conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := l.dispatch(line); err != nil {
			logger.Warn().Err(err).Str("line", line).Msg("Dropping malformed sensor line")
		}
	}
}

func (l *Link) dispatch(line string) error {
	fields := strings.Fields(line)

	switch fields[0] {
	case "D":
		if len(fields) != 3 {
			return l.errFactory.New(ErrMalformedReply)
		}
		tvoc, err1 := strconv.ParseUint(fields[1], 10, 16)
		eco2, err2 := strconv.ParseUint(fields[2], 10, 16)
		if err1 != nil || err2 != nil {
			return l.errFactory.New(ErrMalformedReply)
		}
		select {
		case l.samples <- Reading{TVOC: uint16(tvoc), ECO2: uint16(eco2)}:
		default:
			// Consumer has fallen behind; drop the newest measurement
			logger.Debug().Msg("Sample buffer full, dropping measurement")
		}
	case "B":
		if len(fields) != 2 {
			return l.errFactory.New(ErrMalformedReply)
		}
		baseline, err := strconv.ParseUint(fields[1], 10, 16)
		if err != nil {
			return l.errFactory.New(ErrMalformedReply)
		}
		select {
		case l.baselineCh <- uint16(baseline):
		default:
		}
	case "E":
		if len(fields) != 3 {
			return l.errFactory.New(ErrMalformedReply)
		}
		t, err1 := strconv.ParseInt(fields[1], 10, 32)
		h, err2 := strconv.ParseInt(fields[2], 10, 32)
		if err1 != nil || err2 != nil {
			return l.errFactory.New(ErrMalformedReply)
		}
		select {
		case l.envCh <- envReading{tempC: float32(t) / 100, humidityPct: float32(h) / 100}:
		default:
		}
	default:
		return l.errFactory.WithData(ErrMalformedReply, fields[0])
	}

	return nil
}

func (l *Link) writeCommand(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return l.errFactory.New(ErrNotConnected)
	}

	if _, err := l.conn.Write([]byte(fmt.Sprintf(format+"\n", args...))); err != nil {
		return l.errFactory.Wrap(ErrWriteCommand, err)
	}

	return nil
}

// SampleReady reports whether a pushed measurement is waiting.
func (l *Link) SampleReady() bool {
	return len(l.samples) > 0
}

// ReadSample pops the next pending measurement.
func (l *Link) ReadSample() (Reading, error) {
	select {
	case r := <-l.samples:
		return r, nil
	default:
		return Reading{}, l.errFactory.New(ErrNoSample)
	}
}

// ReadCalibration queries the head for the sensor's current baseline.
func (l *Link) ReadCalibration() (uint16, error) {
	if err := l.writeCommand("G"); err != nil {
		return 0, err
	}

	select {
	case baseline := <-l.baselineCh:
		return baseline, nil
	case <-time.After(replyTimeout):
		return 0, l.errFactory.New(ErrReplyTimeout)
	}
}

// ApplyCalibration restores a persisted baseline on the sensor.
func (l *Link) ApplyCalibration(baseline uint16) error {
	return l.writeCommand("C %d", baseline)
}

// SetCompensation converts ambient conditions to absolute humidity and
// forwards it to the gas sensor's compensation input.
func (l *Link) SetCompensation(humidityPct, tempC float32) error {
	mg := uint32(absoluteHumidity(humidityPct, tempC) * 1000)
	return l.writeCommand("H %d", mg)
}

// SetActive toggles the gas sensor's low-power control.
func (l *Link) SetActive(active bool) error {
	v := 0
	if active {
		v = 1
	}
	return l.writeCommand("W %d", v)
}

func (l *Link) readEnvironment() (envReading, error) {
	if time.Since(l.lastEnvAt) < envCacheTTL {
		return l.lastEnv, nil
	}

	if err := l.writeCommand("Q"); err != nil {
		return envReading{}, err
	}

	select {
	case env := <-l.envCh:
		l.lastEnv = env
		l.lastEnvAt = time.Now()
		return env, nil
	case <-time.After(replyTimeout):
		return envReading{}, l.errFactory.New(ErrReplyTimeout)
	}
}

// ReadTemperatureC returns the ambient temperature in degrees Celsius.
func (l *Link) ReadTemperatureC() (float32, error) {
	env, err := l.readEnvironment()
	if err != nil {
		return 0, l.errFactory.Wrap(ErrEnvironmentRead, err)
	}
	return env.tempC, nil
}

// ReadHumidityPercent returns the ambient relative humidity.
func (l *Link) ReadHumidityPercent() (float32, error) {
	env, err := l.readEnvironment()
	if err != nil {
		return 0, l.errFactory.Wrap(ErrEnvironmentRead, err)
	}
	return env.humidityPct, nil
}

// SetSlot stages one indicator slot; the head applies it on Commit.
func (l *Link) SetSlot(index int, c Color) error {
	if index < 0 {
		return l.errFactory.WithData(ErrSlotOutOfRange, index)
	}
	return l.writeCommand("L %d %d %d %d", index, c.R, c.G, c.B)
}

// Commit pushes all staged slots to the LED hardware.
func (l *Link) Commit() error {
	return l.writeCommand("X")
}
