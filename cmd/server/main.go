package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
)

// Version is the server version
var Version = "v0.0.0-dev"

// CLI is the command line interface of the server
type CLI struct {
	Config  string           `short:"c" help:"Path to the YAML configuration file" type:"path" env:"HOLDEM_CONFIG_FILE"`
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the Hold'em server"`
	Replay ReplayCmd `cmd:"" help:"Replay a recorded hand and verify its deals"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-server"),
		kong.Description("Multi-table Texas Hold'em server"),
		kong.UsageOnError(),
		kong.Vars{
			"version": Version,
		},
	)

	if cli.Config != "" {
		_ = os.Setenv("HOLDEM_CONFIG_FILE", cli.Config)
	}

	if err := config.Load(); err != nil {
		ctx.FatalIfErrorf(err)
	}

	cfg := config.Instance()
	ctx.BindTo(setupLogger(cfg), (*logrus.FieldLogger)(nil))
	ctx.FatalIfErrorf(ctx.Run(cfg))
}

func setupLogger(cfg config.Config) logrus.FieldLogger {
	logger := logrus.StandardLogger()
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logger.SetLevel(level)
	}

	if strings.ToLower(cfg.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
