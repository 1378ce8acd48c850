package config

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// Capture Configuration
	CameraSource string `mapstructure:"CAMERA_SOURCE" validate:"required"`
	CameraWidth  int    `mapstructure:"CAMERA_WIDTH" validate:"eq=0|min=16,max=7680"`
	CameraHeight int    `mapstructure:"CAMERA_HEIGHT" validate:"eq=0|min=16,max=4320"`
	CameraFPS    int    `mapstructure:"CAMERA_FPS" validate:"min=1,max=120"`

	// Pipeline Configuration
	DisplayBuffer int `mapstructure:"DISPLAY_BUFFER" validate:"min=1,max=64"`

	// Window Configuration
	WindowWidth  int `mapstructure:"WINDOW_WIDTH" validate:"min=200"`
	WindowHeight int `mapstructure:"WINDOW_HEIGHT" validate:"min=200"`

	Debug bool `mapstructure:"DEBUG"`
}

// command line flags and the keys they override
var flagKeys = map[string]string{
	"debug":  "DEBUG",
	"source": "CAMERA_SOURCE",
}

// NewFlagSet defines the command line flags understood by LoadConfig.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Bool("debug", false, "Enable debug mode with verbose logging")
	fs.String("source", "0", "Camera index, video file, stream URL or still image")
	fs.String("config", "", "Optional configuration file (yaml, json or toml)")
	return fs
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
}

// LoadConfig resolves configuration from defaults, an optional config file,
// environment variables and flags, in increasing order of precedence.
func LoadConfig(ctx context.Context, fs afero.Fs, flags *pflag.FlagSet) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("CAMERA_SOURCE", "0")
	viper.SetDefault("CAMERA_WIDTH", 640)
	viper.SetDefault("CAMERA_HEIGHT", 480)
	viper.SetDefault("CAMERA_FPS", 15)
	viper.SetDefault("DISPLAY_BUFFER", 1)
	viper.SetDefault("WINDOW_WIDTH", 1024)
	viper.SetDefault("WINDOW_HEIGHT", 768)
	viper.SetDefault("DEBUG", false)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}

		if path, _ := flags.GetString("config"); path != "" {
			viper.SetFs(fs)
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	logrus.WithField("config", cfg).Debug("Loaded configuration")

	validate := validator.New()
	if err := validate.StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
