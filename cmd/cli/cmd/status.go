package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"funcplane/pkg/api"
)

var statusCmd = &cobra.Command{
	Use:   "status [job_id]",
	Short: "Get status of a finished job",
	Long: `Retrieve the details of a job. Execution is synchronous, so every
stored job is either SUCCEEDED or FAILED.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))
		job, err := client.GetJob(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		printStatus(cmd, job)
	},
}

func printStatus(cmd *cobra.Command, job *api.JobResponse) {
	icon := statusIcon(job.Status)
	cmd.Printf("%s %sJob Details%s\n", icon, colorBold, colorReset)
	cmd.Println("──────────────────────────────")

	cmd.Printf("%sID:%s      %s\n", colorDim, colorReset, job.ID)
	cmd.Printf("%sTitle:%s   %s\n", colorDim, colorReset, job.Title)
	cmd.Printf("%sStatus:%s  %s\n", colorDim, colorReset, colorizeStatus(job.Status))
	if job.Result != "" {
		cmd.Printf("%sResult:%s  %s\n", colorDim, colorReset, job.Result)
	}
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
)

func statusIcon(status string) string {
	switch status {
	case api.JobStatusSucceeded:
		return colorGreen + "✓" + colorReset
	case api.JobStatusFailed:
		return colorRed + "✗" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	switch status {
	case api.JobStatusSucceeded:
		return colorGreen + status + colorReset
	case api.JobStatusFailed:
		return colorRed + status + colorReset
	default:
		return status
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
