// internal/controller/shutdown_test.go
package controller

import (
	"context"
	"testing"
)

func TestCommandShutdown(t *testing.T) {
	if err := (CommandShutdown{"true"}).Shutdown(context.Background()); err != nil {
		t.Fatalf("true: err=%v", err)
	}
	if err := (CommandShutdown{"false"}).Shutdown(context.Background()); err == nil {
		t.Fatalf("false: expected error")
	}
	if err := CommandShutdown(nil).Shutdown(context.Background()); err == nil {
		t.Fatalf("empty command: expected error")
	}
}
