// internal/keypad/serial.go
package keypad

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Serial keypad bridge protocol: the bridge MCU sends the key character when a
// key goes down and ReleaseByte when it comes up. CR/LF are ignored.
const ReleaseByte byte = '~'

// maxReadsPerScan bounds one Scan when the bridge streams continuously.
const maxReadsPerScan = 16

// SerialConfig is the bridge port configuration.
type SerialConfig struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// port is the subset of serial.Port the scanner uses.
type port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Serial tracks the held key reported by a serial keypad bridge.
type Serial struct {
	port port
	buf  [32]byte

	held     Key
	reported bool // held was already returned by a Scan
	tapped   Key  // pressed and released between two scans
	gap      bool // a reported key went up: next scan reads NoKey
}

// OpenSerial opens the bridge port. Reads are bounded by ReadTimeout so Scan
// never blocks the control loop for long.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.Port == "" {
		return nil, errors.New("keypad serial: port required")
	}

	p, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	})
	if err != nil {
		return nil, fmt.Errorf("keypad serial: failed to open %s: %w", cfg.Port, err)
	}

	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("keypad serial: failed to set read timeout: %w", err)
	}

	return newSerial(p), nil
}

func newSerial(p port) *Serial {
	return &Serial{port: p}
}

// Scan drains pending bridge bytes and returns the held key.
// A key tapped between two scans is reported once. Every reported key is
// followed by at least one NoKey scan before the next key.
func (s *Serial) Scan() Key {
	for i := 0; i < maxReadsPerScan; i++ {
		n, err := s.port.Read(s.buf[:])
		if err != nil || n == 0 {
			break
		}
		for _, b := range s.buf[:n] {
			s.feed(b)
		}
	}

	if s.gap {
		s.gap = false
		return NoKey
	}
	if s.tapped != NoKey {
		k := s.tapped
		s.tapped = NoKey
		s.gap = true
		return k
	}
	if s.held != NoKey {
		s.reported = true
	}
	return s.held
}

func (s *Serial) feed(b byte) {
	switch b {
	case '\r', '\n':
	case ReleaseByte:
		if s.held != NoKey {
			if s.reported {
				s.gap = true
			} else {
				s.tapped = s.held
			}
		}
		s.held = NoKey
		s.reported = false
	default:
		s.held = Key(b)
		s.reported = false
	}
}

// Close closes the bridge port.
func (s *Serial) Close() error {
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("keypad serial: failed to close port: %w", err)
	}
	return nil
}
