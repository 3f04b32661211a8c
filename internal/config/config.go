// Package config loads simulator configuration from flags, environment
// variables, and defaults via viper, with the CLI surface defined by a
// cobra root command (spec §6).
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds all simulator configuration (spec §6 CLI/env surface).
type Config struct {
	Headless  bool
	AutoStart bool

	Port int
	Host string

	Spread    float64
	Sentiment string
	Intensity string
	Speed     float64

	Seed int64
}

// Bind registers every flag named in spec §6 on cmd and binds it into v,
// mirroring the teacher's flag+env precedence (flag > env > default) but
// through viper so both sources are resolved uniformly.
func Bind(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()

	flags.Bool("headless", false, "run without the bundled UI, serving only the websocket and admin endpoints")
	flags.Bool("auto-start", false, "start each connecting session immediately with the configured defaults instead of waiting for a start message")
	flags.IntP("port", "p", 8080, "websocket server port")
	flags.StringP("sentiment", "s", "NEUTRAL", "initial sentiment tag for auto-started sessions")
	flags.Float64("spread", 0.10, "initial spread for auto-started sessions")
	flags.String("intensity", "NORMAL", "initial intensity tag for auto-started sessions")
	flags.Float64("speed", 1.0, "initial tick speed multiplier for auto-started sessions")
	flags.Int64P("seed", "i", 0, "PRNG seed (0 = time-derived)")

	v.BindPFlags(flags)
	v.SetEnvPrefix("FEED")
	v.AutomaticEnv()
	v.BindEnv("port", "PORT")
}

// Load resolves a Config from a bound viper instance after flag parsing.
func Load(v *viper.Viper) *Config {
	return &Config{
		Headless:    v.GetBool("headless"),
		AutoStart:   v.GetBool("auto-start"),
		Port:        v.GetInt("port"),
		Host:        "0.0.0.0",
		Spread:      v.GetFloat64("spread"),
		Sentiment:   v.GetString("sentiment"),
		Intensity:   v.GetString("intensity"),
		Speed:       v.GetFloat64("speed"),
		Seed:        v.GetInt64("seed"),
	}
}
