package vulkan

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestDeviceLogger(t *testing.T) {
	d := New(vk.Device(vk.NullHandle))
	if _, ok := d.log.Load().Handler().(nopHandler); !ok {
		t.Errorf("default handler = %T, want nopHandler", d.log.Load().Handler())
	}
	if d.log.Load().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	d.SetLogger(custom)
	if d.log.Load() != custom {
		t.Error("SetLogger did not install the logger")
	}

	d.SetLogger(nil)
	if _, ok := d.log.Load().Handler().(nopHandler); !ok {
		t.Errorf("SetLogger(nil) handler = %T, want nopHandler", d.log.Load().Handler())
	}
}
