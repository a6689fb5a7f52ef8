// internal/plc/client.go
package plc

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"
)

// Client abstracts the Modbus operations the driver needs.
// modbus.Client satisfies it.
type Client interface {
	ReadCoils(address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// transport is the connection lifecycle of a Modbus handler.
type transport interface {
	Connect() error
	Close() error
}

// TransportConfig is minimal transport config.
type TransportConfig struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// newTCP builds a Modbus TCP handler and client.
// It does not dial: the first Connect() does.
func newTCP(cfg TransportConfig) (transport, Client, error) {
	if cfg.Endpoint == "" {
		return nil, nil, errors.New("plc: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	return h, modbus.NewClient(h), nil
}
