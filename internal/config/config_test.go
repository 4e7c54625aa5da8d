package config

import (
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"HOST", "PORT", "CAMERA_KIND", "VIDEO_DEVICE", "VIDEO_WIDTH",
		"VIDEO_HEIGHT", "VIDEO_FORMAT", "STORAGE_PATH", "PRINTER_NAME",
		"PRINTER_FALLBACK", "USE_MOCK_PRINTER", "DATABASE_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Camera.Width != 1920 || cfg.Camera.Height != 1080 {
		t.Errorf("video dims = %dx%d, want 1920x1080", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Format != "MJPG" {
		t.Errorf("Format = %q, want MJPG", cfg.Camera.Format)
	}
	if cfg.Camera.Kind != "gphoto" {
		t.Errorf("Kind = %q, want gphoto", cfg.Camera.Kind)
	}
	if got := cfg.Storage.StaticPath; !strings.HasSuffix(got, "/static") {
		t.Errorf("StaticPath = %q, want BasePath/static", got)
	}
	if got := cfg.Database.Path; !strings.HasSuffix(got, "photo_booth.db") {
		t.Errorf("Database.Path = %q, want default under the storage path", got)
	}
	if len(cfg.Printer.FallbackNames) != 2 {
		t.Errorf("FallbackNames = %v, want the two defaults", cfg.Printer.FallbackNames)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CAMERA_KIND", "mock")
	t.Setenv("STORAGE_PATH", "/tmp/booth")
	t.Setenv("PRINTER_FALLBACK", " DS620 , DNP-DS620 ,")
	t.Setenv("USE_MOCK_PRINTER", "true")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Camera.Kind != "mock" {
		t.Errorf("Kind = %q, want mock", cfg.Camera.Kind)
	}
	if cfg.Database.Path != "/tmp/booth/photo_booth.db" {
		t.Errorf("Database.Path = %q, want it derived from STORAGE_PATH", cfg.Database.Path)
	}
	want := []string{"DS620", "DNP-DS620"}
	if len(cfg.Printer.FallbackNames) != len(want) {
		t.Fatalf("FallbackNames = %v, want %v", cfg.Printer.FallbackNames, want)
	}
	for i := range want {
		if cfg.Printer.FallbackNames[i] != want[i] {
			t.Errorf("FallbackNames[%d] = %q, want %q", i, cfg.Printer.FallbackNames[i], want[i])
		}
	}
	if !cfg.Printer.UseMock {
		t.Error("UseMock = false, want true")
	}
}

func TestFromEnvValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero port", "PORT", "0"},
		{"non-numeric port", "PORT", "eighty"},
		{"zero width", "VIDEO_WIDTH", "0"},
		{"zero height", "VIDEO_HEIGHT", "0"},
		{"bad format", "VIDEO_FORMAT", "H264"},
		{"bad camera kind", "CAMERA_KIND", "pinhole"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}
