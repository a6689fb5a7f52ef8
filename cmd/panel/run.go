// cmd/panel/run.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/fixture-panel/internal/camera"
	"github.com/tamzrod/fixture-panel/internal/config"
	"github.com/tamzrod/fixture-panel/internal/controller"
	"github.com/tamzrod/fixture-panel/internal/display"
	"github.com/tamzrod/fixture-panel/internal/keypad"
	"github.com/tamzrod/fixture-panel/internal/logging"
	"github.com/tamzrod/fixture-panel/internal/plc"
	"github.com/tamzrod/fixture-panel/internal/telemetry"
	"github.com/tamzrod/fixture-panel/internal/version"
)

const defaultTerminalLogFile = "panel.log"

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	log := logging.Named("panel")
	log.Info("starting", zap.String("version", version.String()), zap.String("config", configPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Releases run in reverse order: display, keypad, PLC.

	// --------------------
	// PLC
	// --------------------

	drv, err := plc.Build(cfg.PLC)
	if err != nil {
		return err
	}
	defer func() {
		if err := drv.Disconnect(); err != nil {
			log.Warn("PLC disconnect", zap.Error(err))
		}
	}()

	if drv.Connect() {
		log.Info("PLC connected", zap.String("endpoint", cfg.PLC.Endpoint))
	} else {
		log.Warn("PLC connection error, check PLC and ethernet cable", zap.Error(drv.LastError()))
	}

	// --------------------
	// Keypad
	// --------------------

	keys, queue := openKeypad(cfg.Keypad, log)
	if keys != nil {
		defer func() {
			if err := keys.Close(); err != nil {
				log.Warn("keypad close", zap.Error(err))
			}
		}()
	}

	// --------------------
	// Display
	// --------------------

	screen, err := openDisplay(cfg.Display, queue)
	if err != nil {
		return err
	}
	defer func() {
		if err := screen.Close(); err != nil {
			log.Warn("display close", zap.Error(err))
		}
	}()

	// --------------------
	// Camera (optional)
	// --------------------

	var cam controller.Camera
	if cfg.Camera.Enabled {
		rec, err := camera.New(camera.Config{
			OutputDir:      cfg.Camera.OutputDir,
			Extension:      cfg.Camera.Extension,
			RecordCommand:  cfg.Camera.RecordCommand,
			PreviewCommand: cfg.Camera.PreviewCommand,
		})
		if err != nil {
			log.Warn("camera cannot be used", zap.Error(err))
		} else {
			log.Info("camera ready", zap.String("dir", cfg.Camera.OutputDir))
			cam = rec
			defer func() {
				if err := rec.Close(); err != nil {
					log.Warn("camera close", zap.Error(err))
				}
			}()
		}
	}

	// --------------------
	// Telemetry (optional)
	// --------------------

	var events controller.Publisher = telemetry.Nop{}
	if cfg.MQTT.Broker != "" {
		m, err := telemetry.Connect(telemetry.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, logging.Named("telemetry"))
		if err != nil {
			log.Warn("telemetry disabled", zap.Error(err))
		} else {
			events = m
			defer func() {
				if err := m.Close(); err != nil {
					log.Warn("telemetry close", zap.Error(err))
				}
			}()
		}
	}

	// --------------------
	// Control loop
	// --------------------

	ctl, err := controller.New(controller.Config{
		Tick:           time.Duration(cfg.Panel.TickMs) * time.Millisecond,
		ReportInterval: time.Duration(cfg.Panel.ReportIntervalMs) * time.Millisecond,
		RecordFor:      time.Duration(cfg.Camera.DurationS) * time.Second,
		Modes: controller.ModeTable{
			Auto:   cfg.PLC.Modes.Auto,
			Manual: cfg.PLC.Modes.Manual,
			Reset:  cfg.PLC.Modes.Reset,
		},
	}, controller.Deps{
		PLC:      drv,
		Display:  screen,
		Keypad:   keys,
		Camera:   cam,
		Shutdown: controller.CommandShutdown(cfg.Shutdown.Command),
		Events:   events,
		Log:      logging.Named("controller"),
	})
	if err != nil {
		return err
	}

	return ctl.Run(ctx)
}

// initLogging keeps log output off the terminal the display draws on.
func initLogging(cfg *config.Config) error {
	path := logFile
	if path == "" && cfg.Display.Driver == "tcell" {
		path = defaultTerminalLogFile
	}
	if path == "" {
		return logging.Initialize(logLevel)
	}
	return logging.InitializeFile(logLevel, path)
}

// openKeypad returns the configured scanner, or nil when none is usable.
// queue is non-nil only for the terminal keypad, which the display feeds.
func openKeypad(c config.KeypadConfig, log *zap.Logger) (keys keypad.Scanner, queue *keypad.Queue) {
	switch c.Driver {
	case "matrix":
		m, err := keypad.OpenMatrix(keypad.MatrixConfig{
			Chip:   c.Matrix.Chip,
			Rows:   c.Matrix.Rows,
			Cols:   c.Matrix.Cols,
			Layout: c.Matrix.Layout,
		})
		if err != nil {
			log.Warn("keyboard initialize failed", zap.Error(err))
			return nil, nil
		}
		log.Info("keyboard initialize success", zap.String("driver", c.Driver))
		return m, nil

	case "serial":
		s, err := keypad.OpenSerial(keypad.SerialConfig{
			Port:        c.Serial.Port,
			BaudRate:    c.Serial.BaudRate,
			ReadTimeout: time.Duration(c.Serial.ReadTimeoutMs) * time.Millisecond,
		})
		if err != nil {
			log.Warn("keyboard initialize failed", zap.Error(err))
			return nil, nil
		}
		log.Info("keyboard initialize success", zap.String("driver", c.Driver), zap.String("port", c.Serial.Port))
		return s, nil

	case "terminal":
		q := keypad.NewQueue()
		log.Info("keyboard initialize success", zap.String("driver", c.Driver))
		return q, q

	default:
		log.Warn("no keypad configured, value entry disabled")
		return nil, nil
	}
}

type screenCloser interface {
	controller.Renderer
	Close() error
}

func openDisplay(c config.DisplayConfig, queue *keypad.Queue) (screenCloser, error) {
	if c.Driver == "none" {
		return display.Nop{}, nil
	}
	s, err := display.New(queue)
	if err != nil {
		return nil, err
	}
	return s, nil
}
