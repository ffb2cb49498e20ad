package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"funcplane/pkg/api"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new function definition",
	Long: `Register a function definition with the daemon. The entrypoint must
exist inside the working directory at registration time.

Example:
  fnctl register --title "my-fn" --entrypoint "main.py" --working-dir "/path/to/code/"
  fnctl register --title "sim" --entrypoint "sim.py" --working-dir "./sims/" --dep "numpy==1.26" --env "SEED=42"`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		provider, _ := flags.GetString("provider")
		entrypoint, _ := flags.GetString("entrypoint")
		workingDir, _ := flags.GetString("working-dir")
		envVars, _ := flags.GetStringToString("env")
		deps, _ := flags.GetStringSlice("dep")

		if title == "" {
			cmd.Println("Error: --title is required")
			return
		}
		if entrypoint == "" {
			cmd.Println("Error: --entrypoint is required")
			return
		}

		client := NewAPIClient(viper.GetString("url"))
		result, err := client.RegisterFunction(api.RegisterFunctionRequest{
			Title:        title,
			Provider:     provider,
			Entrypoint:   entrypoint,
			WorkingDir:   workingDir,
			EnvVars:      envVars,
			Dependencies: deps,
		})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Function registered!\nTitle: %s\n", result.Title)
	},
}

// printClientError prints API errors with their status code and anything
// else verbatim.
func printClientError(cmd *cobra.Command, err error) {
	if apiErr, ok := err.(*APIError); ok {
		cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		return
	}
	cmd.Printf("Error: %v\n", err)
}

func init() {
	flags := registerCmd.Flags()
	flags.StringP("title", "t", "", "Title of the function (required)")
	flags.String("provider", "", "Provider name (optional)")
	flags.StringP("entrypoint", "e", "", "Entrypoint file relative to the working directory (required)")
	flags.StringP("working-dir", "w", "", "Working directory, including trailing separator")
	flags.StringToString("env", nil, "Environment variables as KEY=VALUE pairs")
	flags.StringSlice("dep", []string{}, "Dependency to install before each run (repeatable)")

	rootCmd.AddCommand(registerCmd)
}
