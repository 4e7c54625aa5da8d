// Package config loads booth configuration from the environment.
//
// Every setting has a default suitable for the booth appliance, so an
// empty environment yields a working (if mock-free) configuration. A
// .env file in the working directory is loaded first when present;
// real environment variables always win over it.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings for the booth.
type Config struct {
	Server   ServerConfig
	Camera   CameraConfig
	Storage  StorageConfig
	Printer  PrinterConfig
	Template TemplateConfig
	Database DatabaseConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string // HOST, default 0.0.0.0
	Port int    // PORT, default 8080
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CameraConfig selects and parameterizes the capture device.
type CameraConfig struct {
	// Kind selects the implementation: "gphoto" drives a tethered DSLR,
	// "webcam" a plain v4l2 device, "mock" a synthetic generator for
	// development without hardware. CAMERA_KIND, default gphoto.
	Kind string
	// Device is the v4l2 loopback (gphoto) or capture (webcam) device.
	// VIDEO_DEVICE, default /dev/video0.
	Device string
	Width  int    // VIDEO_WIDTH, default 1920
	Height int    // VIDEO_HEIGHT, default 1080
	Format string // VIDEO_FORMAT, MJPG or YUYV, default MJPG
}

// StorageConfig locates captured photos and static assets on disk.
type StorageConfig struct {
	BasePath   string // STORAGE_PATH, default /usr/local/share/photo_booth
	StaticPath string // derived: BasePath/static
}

// PrinterConfig names the CUPS queue and its fallbacks.
type PrinterConfig struct {
	Name          string   // PRINTER_NAME
	FallbackNames []string // PRINTER_FALLBACK, comma separated
	UseMock       bool     // USE_MOCK_PRINTER
}

// TemplateConfig holds the poster text placeholders and background asset.
type TemplateConfig struct {
	HeaderText          string // TEMPLATE_HEADER
	NamePlaceholder     string // TEMPLATE_NAME
	HeadlinePlaceholder string // TEMPLATE_HEADLINE
	StoryPlaceholder    string // TEMPLATE_STORY
	BackgroundFilename  string // TEMPLATE_BACKGROUND
	InkColor            string // TEMPLATE_INK, hex like #302015; empty uses the built-in ink
}

// DatabaseConfig locates the sqlite session database.
type DatabaseConfig struct {
	Path string // DATABASE_PATH, default BasePath/photo_booth.db
}

// Load reads a .env file if one exists, then builds a Config from the
// environment and validates it.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching
// any .env file.
func FromEnv() (*Config, error) {
	port, err := intVar("PORT", 8080)
	if err != nil {
		return nil, err
	}
	width, err := intVar("VIDEO_WIDTH", 1920)
	if err != nil {
		return nil, err
	}
	height, err := intVar("VIDEO_HEIGHT", 1080)
	if err != nil {
		return nil, err
	}

	basePath := stringVar("STORAGE_PATH", "/usr/local/share/photo_booth")

	cfg := &Config{
		Server: ServerConfig{
			Host: stringVar("HOST", "0.0.0.0"),
			Port: port,
		},
		Camera: CameraConfig{
			Kind:   stringVar("CAMERA_KIND", "gphoto"),
			Device: stringVar("VIDEO_DEVICE", "/dev/video0"),
			Width:  width,
			Height: height,
			Format: stringVar("VIDEO_FORMAT", "MJPG"),
		},
		Storage: StorageConfig{
			BasePath:   basePath,
			StaticPath: filepath.Join(basePath, "static"),
		},
		Printer: PrinterConfig{
			Name:          stringVar("PRINTER_NAME", "XP8700series-TurboPrint"),
			FallbackNames: listVar("PRINTER_FALLBACK", "EPSON_XP_8700_Series_USB,XP-8700"),
			UseMock:       boolVar("USE_MOCK_PRINTER", false),
		},
		Template: TemplateConfig{
			HeaderText:          stringVar("TEMPLATE_HEADER", "Photo Booth"),
			NamePlaceholder:     stringVar("TEMPLATE_NAME", "NAME HERE"),
			HeadlinePlaceholder: stringVar("TEMPLATE_HEADLINE", "HEADLINE"),
			StoryPlaceholder:    stringVar("TEMPLATE_STORY", "STORY HERE"),
			BackgroundFilename:  stringVar("TEMPLATE_BACKGROUND", "background.png"),
			InkColor:            stringVar("TEMPLATE_INK", ""),
		},
		Database: DatabaseConfig{
			Path: stringVar("DATABASE_PATH", filepath.Join(basePath, "photo_booth.db")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("config: invalid video dimensions %dx%d", c.Camera.Width, c.Camera.Height)
	}
	switch c.Camera.Format {
	case "MJPG", "YUYV":
	default:
		return fmt.Errorf("config: unsupported video format %q (want MJPG or YUYV)", c.Camera.Format)
	}
	switch c.Camera.Kind {
	case "gphoto", "webcam", "mock":
	default:
		return fmt.Errorf("config: unknown camera kind %q (want gphoto, webcam or mock)", c.Camera.Kind)
	}
	return nil
}

// BackgroundPath returns the absolute path of the poster background asset.
func (c *Config) BackgroundPath() string {
	return filepath.Join(c.Storage.StaticPath, c.Template.BackgroundFilename)
}

func stringVar(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func intVar(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func boolVar(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func listVar(key, def string) []string {
	v := stringVar(key, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
