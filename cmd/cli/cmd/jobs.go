package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List all finished jobs",
	Long:  `List every stored job in the order it ran.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))
		resp, err := client.ListJobs()
		if err != nil {
			printClientError(cmd, err)
			return
		}

		if len(resp.Jobs) == 0 {
			cmd.Println("No jobs yet")
			return
		}

		for _, job := range resp.Jobs {
			cmd.Printf("%s %s  %s  %s\n", statusIcon(job.Status), job.ID, colorizeStatus(job.Status), job.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
