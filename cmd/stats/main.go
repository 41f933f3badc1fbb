package main

import (
	stdLog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-management/stats/app"
	"github.com/Astemirdum/library-management/stats/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:          "stats",
		Short:        "Lending statistics built from loan events",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	newConfig := func() *config.Config {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		return config.NewConfig(config.WithLogLevel(level))
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Consume loan events and serve stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(newConfig())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect stats migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Migrate(newConfig(), args[0])
		},
	})
	return root
}
