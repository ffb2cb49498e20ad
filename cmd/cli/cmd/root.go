package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fnctl",
	Short: "Fnctl is a command line tool for the funcplane local daemon",
	Long: `fnctl is the command-line interface for funcplane, a local emulator of a
serverless function execution service.

The daemon keeps a registry of function definitions and runs them as local
subprocesses. Every run blocks until the entrypoint exits, so by the time a
job id is printed the job is already in a terminal state.

Common workflows:

  Register a function:
    fnctl register --title "my-fn" --entrypoint "main.py" --working-dir "/path/to/code/"

  Run a registered function:
    fnctl run my-fn --args '{"shots": 1024}'

  Inspect a finished job:
    fnctl status <job-id>
    fnctl result <job-id>
    fnctl logs <job-id>

  List everything:
    fnctl functions
    fnctl jobs

Configuration:
  Set the daemon endpoint via environment variable or a config file:
    FUNCPLANE_URL    Daemon endpoint (default: http://localhost:7171)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".fnctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".fnctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "FUNCPLANE_VARNAME"
	viper.SetEnvPrefix("FUNCPLANE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fnctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:7171", "Funcplane daemon URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
