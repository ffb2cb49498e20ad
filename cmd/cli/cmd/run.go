package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"funcplane/pkg/api"
)

var runCmd = &cobra.Command{
	Use:   "run [title]",
	Short: "Run a registered function and wait for it to finish",
	Long: `Run the function registered under the given title. The command blocks
until the entrypoint exits and then prints the terminal status, the job id
and the extracted result.

Example:
  fnctl run my-fn
  fnctl run my-fn --args '{"shots": 1024}'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := args[0]
		rawArgs, _ := cmd.Flags().GetString("args")

		var arguments map[string]interface{}
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &arguments); err != nil {
				cmd.Printf("Error: --args must be a JSON object: %v\n", err)
				return
			}
		}

		client := NewAPIClient(viper.GetString("url"))
		result, err := client.RunFunction(title, api.RunFunctionRequest{Arguments: arguments})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("%s %s\n", statusIcon(result.Status), colorizeStatus(result.Status))
		cmd.Printf("%sJob ID:%s  %s\n", colorDim, colorReset, result.JobID)
		if result.Result != "" {
			cmd.Printf("%sResult:%s  %s\n", colorDim, colorReset, result.Result)
		}
	},
}

func init() {
	runCmd.Flags().StringP("args", "a", "", "Arguments as a JSON object, passed to the entrypoint")

	rootCmd.AddCommand(runCmd)
}
