// Package cmd is the frontdesk command line: the API server, database
// maintenance and a few remote floor operations.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"frontdesk/configs"
	"frontdesk/events"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *configs.Config

var rootCmd = &cobra.Command{
	Use:           "frontdesk",
	Short:         "Restaurant front-of-house backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = configs.LoadConfig()
		configs.SetupLogger(cfg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db-driver", "", "database driver (sqlite|postgres)")
	pf.String("db-source", "", "database DSN or sqlite file")
	pf.String("log-level", "", "zerolog level")
	cobra.CheckErr(viper.BindPFlag("DB_DRIVER", pf.Lookup("db-driver")))
	cobra.CheckErr(viper.BindPFlag("DB_SOURCE", pf.Lookup("db-source")))
	cobra.CheckErr(viper.BindPFlag("LOG_LEVEL", pf.Lookup("log-level")))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openPublisher returns the broker publisher when AMQP_URL is set, or Nop.
func openPublisher() (events.Publisher, func()) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, func() {}
	}
	p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Warn().Err(err).Msg("amqp unavailable, events stay local")
		return events.Nop{}, func() {}
	}
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("close amqp")
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
