// internal/plc/driver.go
package plc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/fixture-panel/internal/param"
)

// Registers holds holding register addresses.
type Registers struct {
	Status      uint16
	TorchSpeed  uint16
	SolderSpeed uint16
	Voltage     *uint16
	Current     *uint16
}

// Coils holds the coil address of each PLC flag.
type Coils struct {
	SettingValue    uint16
	SetGunSpeed     uint16
	SetSolderSpeed  uint16
	SettingValueEnd uint16
	StartAutorun    uint16
	Shutdown        uint16
}

// Config is the runtime config the driver needs.
type Config struct {
	Transport    TransportConfig
	Registers    Registers
	Coils        Coils
	SolderScale  float64
	ReadingScale float64
}

// Driver speaks to the fixture PLC.
// Connection is reused while healthy. Any I/O error closes the transport;
// the next Connect() dials again. No retries inside a call.
type Driver struct {
	cfg       Config
	transport transport
	client    Client

	connected bool
	lastErr   error
}

// New creates a Modbus TCP driver. It does not connect.
func New(cfg Config) (*Driver, error) {
	tr, cli, err := newTCP(cfg.Transport)
	if err != nil {
		return nil, err
	}
	return newDriver(cfg, tr, cli), nil
}

func newDriver(cfg Config, tr transport, cli Client) *Driver {
	if cfg.SolderScale <= 0 {
		cfg.SolderScale = 1
	}
	if cfg.ReadingScale <= 0 {
		cfg.ReadingScale = 1
	}
	return &Driver{cfg: cfg, transport: tr, client: cli}
}

// Connect ensures the link is up. It reports false if dialing fails or
// the previous call on this link failed and re-dialing fails.
func (d *Driver) Connect() bool {
	if err := d.transport.Connect(); err != nil {
		d.connected = false
		d.lastErr = fmt.Errorf("plc: connect %s: %w", d.cfg.Transport.Endpoint, err)
		return false
	}
	d.connected = true
	return true
}

// LastError returns the most recent link error (nil after a clean connect).
func (d *Driver) LastError() error {
	if d.connected {
		return nil
	}
	return d.lastErr
}

// Disconnect closes the link.
func (d *Driver) Disconnect() error {
	d.connected = false
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("plc: disconnect: %w", err)
	}
	return nil
}

// ---- status ----

// Status returns the 32-bit mode code (high word first).
func (d *Driver) Status() (uint32, error) {
	b, err := d.client.ReadHoldingRegisters(d.cfg.Registers.Status, 2)
	if err != nil {
		return 0, d.fail(fmt.Errorf("plc: read status %d: %w", d.cfg.Registers.Status, err))
	}
	if len(b) < 4 {
		return 0, d.fail(fmt.Errorf("plc: read status: short payload (%d bytes)", len(b)))
	}
	return binary.BigEndian.Uint32(b[:4]), nil
}

// ---- flags ----

// SettingValueTriggered reports whether the operator asked to set a value.
func (d *Driver) SettingValueTriggered() (bool, error) {
	return d.coil(d.cfg.Coils.SettingValue)
}

// IsSettingValue reports whether the PLC selected k for entry.
func (d *Driver) IsSettingValue(k param.Kind) (bool, error) {
	switch k {
	case param.TorchSpeed:
		return d.coil(d.cfg.Coils.SetGunSpeed)
	case param.SolderSpeed:
		return d.coil(d.cfg.Coils.SetSolderSpeed)
	default:
		return false, fmt.Errorf("plc: no selection flag for %s", k)
	}
}

// EntrySessionEnded reports whether the operator closed value entry.
func (d *Driver) EntrySessionEnded() (bool, error) {
	return d.coil(d.cfg.Coils.SettingValueEnd)
}

// StartAutorun reports whether the PLC requests a recorded auto run.
func (d *Driver) StartAutorun() (bool, error) {
	return d.coil(d.cfg.Coils.StartAutorun)
}

// ShouldShutdown reports whether the PLC commands a system shutdown.
func (d *Driver) ShouldShutdown() (bool, error) {
	return d.coil(d.cfg.Coils.Shutdown)
}

func (d *Driver) coil(addr uint16) (bool, error) {
	b, err := d.client.ReadCoils(addr, 1)
	if err != nil {
		return false, d.fail(fmt.Errorf("plc: read coil %d: %w", addr, err))
	}
	if len(b) < 1 {
		return false, d.fail(fmt.Errorf("plc: read coil %d: empty payload", addr))
	}
	return b[0]&0x01 != 0, nil
}

// ---- values ----

// WriteValue writes a committed parameter value to its register.
func (d *Driver) WriteValue(k param.Kind, v float64) error {
	var addr uint16
	raw := v

	switch k {
	case param.TorchSpeed:
		addr = d.cfg.Registers.TorchSpeed
	case param.SolderSpeed:
		addr = d.cfg.Registers.SolderSpeed
		raw = v * d.cfg.SolderScale
	default:
		return fmt.Errorf("plc: no register for %s", k)
	}

	raw = math.Round(raw)
	if raw < 0 || raw > math.MaxUint16 {
		return fmt.Errorf("plc: %s value %v out of register range", k, v)
	}

	if _, err := d.client.WriteSingleRegister(addr, uint16(raw)); err != nil {
		return d.fail(fmt.Errorf("plc: write %s register %d: %w", k, addr, err))
	}
	return nil
}

// Readings holds live process values read back from the PLC.
type Readings struct {
	Voltage float64
	Current float64
	At      time.Time
}

// ErrNoReadings is returned when no read-back registers are configured.
var ErrNoReadings = errors.New("plc: no read-back registers configured")

// Readings reads voltage and current if their registers are configured.
func (d *Driver) Readings() (Readings, error) {
	r := Readings{At: time.Now()}
	regs := d.cfg.Registers

	if regs.Voltage == nil && regs.Current == nil {
		return r, ErrNoReadings
	}

	if regs.Voltage != nil {
		v, err := d.register(*regs.Voltage)
		if err != nil {
			return r, err
		}
		r.Voltage = float64(v) / d.cfg.ReadingScale
	}
	if regs.Current != nil {
		v, err := d.register(*regs.Current)
		if err != nil {
			return r, err
		}
		r.Current = float64(v) / d.cfg.ReadingScale
	}

	return r, nil
}

func (d *Driver) register(addr uint16) (uint16, error) {
	b, err := d.client.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, d.fail(fmt.Errorf("plc: read register %d: %w", addr, err))
	}
	if len(b) < 2 {
		return 0, d.fail(fmt.Errorf("plc: read register %d: short payload", addr))
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// fail discards the transport so the next Connect() dials again.
// A Modbus exception response proves the link is alive and keeps it.
func (d *Driver) fail(err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return err
	}
	d.connected = false
	d.lastErr = err
	_ = d.transport.Close()
	return err
}
