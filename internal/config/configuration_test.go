package config

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Success_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), NewFlagSet("test"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "0", cfg.CameraSource)
	require.Equal(t, 640, cfg.CameraWidth)
	require.Equal(t, 480, cfg.CameraHeight)
	require.Equal(t, 15, cfg.CameraFPS)
	require.Equal(t, 1, cfg.DisplayBuffer)
	require.Equal(t, 1024, cfg.WindowWidth)
	require.Equal(t, 768, cfg.WindowHeight)
	require.False(t, cfg.Debug)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CAMERA_SOURCE", "rtsp://cam.local/stream")
	t.Setenv("CAMERA_FPS", "30")
	t.Setenv("DISPLAY_BUFFER", "4")
	t.Setenv("DEBUG", "true")

	cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), NewFlagSet("test"))
	require.NoError(t, err)
	require.Equal(t, "rtsp://cam.local/stream", cfg.CameraSource)
	require.Equal(t, 30, cfg.CameraFPS)
	require.Equal(t, 4, cfg.DisplayBuffer)
	require.True(t, cfg.Debug)
}

func TestLoadConfig_FlagsBeatEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CAMERA_SOURCE", "1")

	flags := NewFlagSet("test")
	require.NoError(t, flags.Parse([]string{"--source", "testdata/clip.mp4", "--debug"}))

	cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), flags)
	require.NoError(t, err)
	require.Equal(t, "testdata/clip.mp4", cfg.CameraSource)
	require.True(t, cfg.Debug)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/camera.yaml", []byte(
		"CAMERA_SOURCE: \"2\"\nCAMERA_WIDTH: 1280\nCAMERA_HEIGHT: 720\n"), 0o644))

	flags := NewFlagSet("test")
	require.NoError(t, flags.Parse([]string{"--config", "/etc/camera.yaml"}))

	cfg, err := LoadConfig(context.Background(), fs, flags)
	require.NoError(t, err)
	require.Equal(t, "2", cfg.CameraSource)
	require.Equal(t, 1280, cfg.CameraWidth)
	require.Equal(t, 720, cfg.CameraHeight)
	require.Equal(t, 15, cfg.CameraFPS) // default
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := NewFlagSet("test")
	require.NoError(t, flags.Parse([]string{"--config", "/nowhere.yaml"}))

	cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), flags)
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfig_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"fps too high", "CAMERA_FPS", "500"},
		{"fps zero", "CAMERA_FPS", "0"},
		{"width too small", "CAMERA_WIDTH", "8"},
		{"buffer zero", "DISPLAY_BUFFER", "0"},
		{"window too small", "WINDOW_HEIGHT", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			t.Setenv(tt.key, tt.val)

			cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), NewFlagSet("test"))
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_DeviceDefaultSize(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CAMERA_WIDTH", "0")
	t.Setenv("CAMERA_HEIGHT", "0")

	cfg, err := LoadConfig(context.Background(), afero.NewMemMapFs(), nil)
	require.NoError(t, err)
	require.Zero(t, cfg.CameraWidth)
	require.Zero(t, cfg.CameraHeight)
}
