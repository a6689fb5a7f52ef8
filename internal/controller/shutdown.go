// internal/controller/shutdown.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandShutdown runs an OS command (e.g. "sudo shutdown now").
type CommandShutdown []string

func (c CommandShutdown) Shutdown(ctx context.Context) error {
	if len(c) == 0 {
		return errors.New("controller: empty shutdown command")
	}
	out, err := exec.CommandContext(ctx, c[0], c[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("controller: %s: %w: %s", strings.Join(c, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
