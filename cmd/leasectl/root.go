package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cli"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leasectl",
	Short: "Configure and lease Dream Lease vehicles from the terminal.",
	Long: `leasectl browses the Dream Lease showcase, builds a vehicle configuration
against the live catalog and places orders or quotes through the Dream Lease API.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.leasectl.yaml)")

	rootCmd.PersistentFlags().StringP("server", "s", "http://localhost:8080", "Dream Lease API base URL")
	rootCmd.PersistentFlags().String("apikey", "", "API key for admin commands")
	rootCmd.PersistentFlags().Duration("timeout", 45*time.Second, "HTTP timeout per request")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("apikey", rootCmd.PersistentFlags().Lookup("apikey"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".leasectl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("leasectl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := cli.SetLogLevel(levelString); err != nil {
		cli.Log.Fatal(err)
	}
	cli.Log.WithField("config", viper.ConfigFileUsed()).Debug("Configuration loaded")
}

func newAPIClient() *cli.Client {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return cli.NewClient(viper.GetString("server"), viper.GetString("apikey"), timeout)
}
