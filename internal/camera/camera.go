// internal/camera/camera.go
package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// OutputPlaceholder in RecordCommand is replaced by the recording path.
const OutputPlaceholder = "{output}"

// stopGrace is how long a recorder gets to finalize its file after SIGINT.
const stopGrace = 5 * time.Second

// Config describes the external recorder and preview commands.
type Config struct {
	OutputDir      string
	Extension      string
	RecordCommand  []string
	PreviewCommand []string // optional
}

// Recorder drives an external video recorder (rpicam-vid, raspivid, ffmpeg).
// One recording at a time.
type Recorder struct {
	cfg Config

	record  *exec.Cmd
	preview *exec.Cmd
}

// New checks that the recorder binary exists and the output directory is writable.
// A returned error means the camera capability is absent.
func New(cfg Config) (*Recorder, error) {
	if len(cfg.RecordCommand) == 0 {
		return nil, errors.New("camera: record command required")
	}
	if _, err := exec.LookPath(cfg.RecordCommand[0]); err != nil {
		return nil, fmt.Errorf("camera: recorder %q not found: %w", cfg.RecordCommand[0], err)
	}
	if len(cfg.PreviewCommand) > 0 {
		if _, err := exec.LookPath(cfg.PreviewCommand[0]); err != nil {
			return nil, fmt.Errorf("camera: preview %q not found: %w", cfg.PreviewCommand[0], err)
		}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("camera: output dir %s: %w", cfg.OutputDir, err)
	}
	return &Recorder{cfg: cfg}, nil
}

// FileName is the timestamped recording name, YYYYMMDD--HH:MM plus extension.
func FileName(t time.Time, ext string) string {
	return t.Format("20060102--15:04") + ext
}

// Path returns the full recording path for a recording started at t.
func (r *Recorder) Path(t time.Time) string {
	return filepath.Join(r.cfg.OutputDir, FileName(t, r.cfg.Extension))
}

// StartRecording launches the recorder writing to path.
func (r *Recorder) StartRecording(path string) error {
	if r.record != nil {
		return errors.New("camera: already recording")
	}

	args := expand(r.cfg.RecordCommand, path)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("camera: start recording %s: %w", path, err)
	}
	r.record = cmd
	return nil
}

// StartPreview launches the preview command, if one is configured.
func (r *Recorder) StartPreview() error {
	if len(r.cfg.PreviewCommand) == 0 || r.preview != nil {
		return nil
	}
	cmd := exec.Command(r.cfg.PreviewCommand[0], r.cfg.PreviewCommand[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("camera: start preview: %w", err)
	}
	r.preview = cmd
	return nil
}

// WaitRecording blocks for d, or until ctx is done.
func (r *Recorder) WaitRecording(ctx context.Context, d time.Duration) error {
	if r.record == nil {
		return errors.New("camera: not recording")
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StopRecording interrupts the recorder and waits for it to finalize the file.
func (r *Recorder) StopRecording() error {
	cmd := r.record
	r.record = nil
	if cmd == nil {
		return nil
	}
	if err := stop(cmd); err != nil {
		return fmt.Errorf("camera: stop recording: %w", err)
	}
	return nil
}

// StopPreview ends the preview command.
func (r *Recorder) StopPreview() error {
	cmd := r.preview
	r.preview = nil
	if cmd == nil {
		return nil
	}
	if err := stop(cmd); err != nil {
		return fmt.Errorf("camera: stop preview: %w", err)
	}
	return nil
}

// Close stops anything still running.
func (r *Recorder) Close() error {
	errRec := r.StopRecording()
	errPrev := r.StopPreview()
	return errors.Join(errRec, errPrev)
}

func stop(cmd *exec.Cmd) error {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := cmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = cmd.Process.Kill()
		<-done
		return err
	}

	select {
	case <-done:
		// Recorders exit non-zero on SIGINT; the file is still complete.
		return nil
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		<-done
		return fmt.Errorf("pid %d did not exit within %s, killed", cmd.Process.Pid, stopGrace)
	}
}

func expand(cmd []string, path string) []string {
	out := make([]string, len(cmd))
	for i, arg := range cmd {
		out[i] = strings.ReplaceAll(arg, OutputPlaceholder, path)
	}
	return out
}
