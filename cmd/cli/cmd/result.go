package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resultCmd = &cobra.Command{
	Use:   "result [job_id]",
	Short: "Print the result of a finished job",
	Long: `Print the text the entrypoint reported through its result marker.
A job that never printed a marker has an empty result; that is not an
error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))
		job, err := client.GetJob(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Println(job.Result)
	},
}

func init() {
	rootCmd.AddCommand(resultCmd)
}
