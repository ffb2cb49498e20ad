package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logsCmd = &cobra.Command{
	Use:   "logs [job_id]",
	Short: "Print the captured output of a finished job",
	Long: `Print everything the entrypoint wrote to stdout and stderr. The run
already finished, so the output is complete; there is nothing to follow.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))
		resp, err := client.GetLogs(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Print(resp.Logs)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
