// internal/plc/builder.go
package plc

import (
	"time"

	cfg "github.com/tamzrod/fixture-panel/internal/config"
)

// Build constructs a Driver from the PLC section of the panel config.
// The link is not dialed here; the control loop connects on its first tick.
func Build(c cfg.PLCConfig) (*Driver, error) {
	return New(Config{
		Transport: TransportConfig{
			Endpoint: c.Endpoint,
			UnitID:   c.UnitID,
			Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
		},
		Registers: Registers{
			Status:      c.Registers.Status,
			TorchSpeed:  c.Registers.TorchSpeed,
			SolderSpeed: c.Registers.SolderSpeed,
			Voltage:     c.Registers.Voltage,
			Current:     c.Registers.Current,
		},
		Coils: Coils{
			SettingValue:    c.Coils.SettingValue,
			SetGunSpeed:     c.Coils.SetGunSpeed,
			SetSolderSpeed:  c.Coils.SetSolderSpeed,
			SettingValueEnd: c.Coils.SettingValueEnd,
			StartAutorun:    c.Coils.StartAutorun,
			Shutdown:        c.Coils.Shutdown,
		},
		SolderScale:  c.SolderScale,
		ReadingScale: c.ReadingScale,
	})
}
