package main

import (
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wader/pecosutil/internal/config"
)

// config key to flag name, bound if the running command has the flag
var flagKeys = map[string]string{
	"log.format":       "log-format",
	"renderer.path":    "renderer",
	"renderer.format":  "format",
	"renderer.quality": "quality",
	"renderer.zoom":    "zoom",
	"renderer.timeout": "timeout",
	"round.frequency":  "frequency",
	"round.how":        "how",
	"round.strict":     "strict",
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger

	configPath string
	debug      bool
	cfg        *config.Config
}

func newApp(stdin io.Reader, stdout io.Writer, stderr io.Writer) *app {
	log := logrus.New()
	log.SetOutput(stderr)
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, log: log}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	v, err := config.New(a.configPath)
	if err != nil {
		return err
	}
	for key, name := range flagKeys {
		if f := cmd.Flag(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Parse(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lvl, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if a.debug {
		lvl = logrus.DebugLevel
	}
	a.log.SetLevel(lvl)
	if cfg.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	}

	return nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pecosutil",
		Short: "Round time series indexes and render HTML to images",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ./pecosutil.yaml)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Debug")
	root.PersistentFlags().String("log-format", "text", "Log format text or json")

	root.AddCommand(a.roundCmd(), a.convertCmd(), a.versionCmd())

	return root
}

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
