package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var stopCmd = &cobra.Command{
	Use:   "stop [job_id]",
	Short: "Acknowledge a stop request for a job",
	Long: `Runs are synchronous, so any job the daemon knows about already
finished. The daemon acknowledges the request without terminating anything.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))
		resp, err := client.StopJob(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Println(resp.Message)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
