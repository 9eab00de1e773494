// Package config contains the vtdash Config and the code to load it from
// flags, VTDASH_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/web"
)

const EnvPrefix = "VTDASH"

type Config struct {
	// Listen is the HTTP listen address.
	Listen string `mapstructure:"listen"`
	// Dev enables permissive CORS and websocket origins.
	Dev bool `mapstructure:"dev"`
	// Debug adds ./vtdash-debug.log to the log outputs and lowers the level.
	Debug bool `mapstructure:"debug"`
	// StaticDir replaces the embedded dashboard page when it exists.
	StaticDir string `mapstructure:"static-dir"`

	Log     Log     `mapstructure:"log"`
	Assets  Assets  `mapstructure:"assets"`
	Vehicle Vehicle `mapstructure:"vehicle"`
	Auth    Auth    `mapstructure:"auth"`
	FB      FB      `mapstructure:"fb"`
	Plug    Plug    `mapstructure:"plug"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Assets struct {
	// Source is dir, http or minio.
	Source  string        `mapstructure:"source"`
	Dir     string        `mapstructure:"dir"`
	BaseURL string        `mapstructure:"base-url"`
	Root    string        `mapstructure:"root"`
	Timeout time.Duration `mapstructure:"timeout"`
	MinIO   MinIO         `mapstructure:"minio"`
}

type MinIO struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	Bucket    string `mapstructure:"bucket"`
	Secure    bool   `mapstructure:"secure"`
}

type Vehicle struct {
	// File is an optional YAML vehicle descriptor, watched for edits.
	File string `mapstructure:"file"`
}

type Auth struct {
	User       string `mapstructure:"user"`
	BcryptHash string `mapstructure:"bcrypt-hash"`
}

type FB struct {
	Enable  bool   `mapstructure:"enable"`
	Device  string `mapstructure:"device"`
	ExitKey string `mapstructure:"exit-key"`
}

type Plug struct {
	URL string `mapstructure:"url"`
}

var defaults = map[string]any{
	"listen":     ":8080",
	"dev":        false,
	"debug":      false,
	"static-dir": "",
	"log.level":  "info",

	"assets.source":   assets.SourceDir,
	"assets.dir":      ".",
	"assets.base-url": "",
	"assets.root":     carview.DefaultRoot,
	"assets.timeout":  10 * time.Second,

	"assets.minio.endpoint":   "",
	"assets.minio.access-key": "",
	"assets.minio.secret-key": "",
	"assets.minio.bucket":     "",
	"assets.minio.secure":     true,

	"vehicle.file":     "",
	"auth.user":        "",
	"auth.bcrypt-hash": "",
	"fb.enable":        false,
	"fb.device":        "/dev/fb0",
	"fb.exit-key":      "esc",
	"plug.url":         carview.DefaultRoot + "Plug.png",
}

// DefineFlags registers the flags every command shares on the persistent
// flag set of root.
func DefineFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringP("config", "c", "", "optional YAML config file")
	f.Bool("debug", false, "enable debug logging to ./vtdash-debug.log")
	f.String("log.level", "info", "log level: debug, info, warn or error")
	f.String("assets.source", assets.SourceDir, "asset source: dir, http or minio")
	f.String("assets.dir", ".", "directory holding the vehicle images")
	f.String("assets.base-url", "", "base URL for the http asset source")
	f.String("assets.root", carview.DefaultRoot, "path prefix of the vehicle image set")
	f.Duration("assets.timeout", 10*time.Second, "timeout for loading one vehicle image set")
	f.String("assets.minio.endpoint", "", "MinIO/S3 endpoint host:port")
	f.String("assets.minio.bucket", "", "bucket holding the vehicle images")
	f.Bool("assets.minio.secure", true, "use TLS for the MinIO endpoint")
	f.String("vehicle.file", "", "optional YAML vehicle descriptor, reloaded on change")
	f.String("plug.url", carview.DefaultRoot+"Plug.png", "charging plug overlay image")
}

// DefineServeFlags registers the flags only the long-running server uses.
func DefineServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("listen", "l", ":8080", "HTTP listen address")
	f.Bool("dev", false, "enable permissive CORS for local UI development")
	f.String("static-dir", "", "serve this directory at / instead of the embedded page")
	f.String("auth.user", "", "basic auth user; requires auth.bcrypt-hash")
	f.Bool("fb.enable", false, "draw the dashboard on the framebuffer")
	f.String("fb.device", "/dev/fb0", "framebuffer device")
	f.String("fb.exit-key", "esc", "key that stops the panel: esc, q or none")
}

// Load merges defaults, the config file, VTDASH_* variables and the flags of
// cmd, in increasing precedence. Secrets have no flags; they come from the
// file or the environment.
func Load(cmd *cobra.Command) (Config, error) {
	return LoadWithDefaults(cmd, nil)
}

// LoadWithDefaults is Load with some built-in defaults replaced, for
// binaries that differ from the dashboard (the simulator listens on :8090).
func LoadWithDefaults(cmd *cobra.Command, overrides map[string]any) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, value := range overrides {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile := ""
	if cmd != nil {
		bindFlags(v, cmd.Flags())
		configFile, _ = cmd.Flags().GetString("config")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound *os.PathError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config file %s not found", configFile)
			}
			return Config{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// bindFlags binds every flag named after a config key. Other flags, such
// as --config itself, stay command-local.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if _, ok := defaults[flag.Name]; ok {
			_ = v.BindPFlag(flag.Name, flag)
		}
	})
}

func (c Config) Validate() error {
	switch c.Assets.Source {
	case assets.SourceDir, assets.SourceHTTP, assets.SourceMinIO:
	default:
		return fmt.Errorf("assets.source must be dir, http or minio, got %q", c.Assets.Source)
	}
	if c.Assets.Source == assets.SourceHTTP && c.Assets.BaseURL == "" {
		return errors.New("assets.base-url is required for the http source")
	}
	if c.Assets.Source == assets.SourceMinIO && (c.Assets.MinIO.Endpoint == "" || c.Assets.MinIO.Bucket == "") {
		return errors.New("assets.minio.endpoint and assets.minio.bucket are required for the minio source")
	}
	if c.Assets.Timeout <= 0 {
		return fmt.Errorf("assets.timeout must be positive, got %s", c.Assets.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if (c.Auth.User == "") != (c.Auth.BcryptHash == "") {
		return errors.New("auth.user and auth.bcrypt-hash must be set together")
	}
	switch c.FB.ExitKey {
	case "esc", "q", "none":
	default:
		return fmt.Errorf("fb.exit-key must be esc, q or none, got %q", c.FB.ExitKey)
	}
	return nil
}

// SourceConfig converts the assets section for assets.New.
func (c Config) SourceConfig() assets.SourceConfig {
	return assets.SourceConfig{
		Kind:    c.Assets.Source,
		Dir:     c.Assets.Dir,
		BaseURL: c.Assets.BaseURL,
		Timeout: c.Assets.Timeout,
		MinIO: assets.MinIOConfig{
			Endpoint:  c.Assets.MinIO.Endpoint,
			AccessKey: c.Assets.MinIO.AccessKey,
			SecretKey: c.Assets.MinIO.SecretKey,
			Bucket:    c.Assets.MinIO.Bucket,
			Secure:    c.Assets.MinIO.Secure,
		},
	}
}

func (c Config) ServerConfig() web.ServerConfig {
	return web.ServerConfig{
		ListenAddr: c.Listen,
		DevMode:    c.Dev,
		StaticDir:  c.StaticDir,
		AuthUser:   c.Auth.User,
		AuthHash:   c.Auth.BcryptHash,
	}
}
