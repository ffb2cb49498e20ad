package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var functionsCmd = &cobra.Command{
	Use:   "functions [title]",
	Short: "List registered functions or show one by title",
	Long: `Without arguments, list every registration in order, duplicates
included. With a title, show the registration a run would use (the most
recent one).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewAPIClient(viper.GetString("url"))

		if len(args) == 1 {
			fn, err := client.GetFunction(args[0])
			if err != nil {
				printClientError(cmd, err)
				return
			}

			cmd.Printf("%sFunction%s\n", colorBold, colorReset)
			cmd.Println("──────────────────────────────")
			cmd.Printf("%sTitle:%s        %s\n", colorDim, colorReset, fn.Title)
			if fn.Provider != "" {
				cmd.Printf("%sProvider:%s     %s\n", colorDim, colorReset, fn.Provider)
			}
			cmd.Printf("%sEntrypoint:%s   %s\n", colorDim, colorReset, fn.Entrypoint)
			cmd.Printf("%sWorking Dir:%s  %s\n", colorDim, colorReset, fn.WorkingDir)
			for k, v := range fn.EnvVars {
				cmd.Printf("%sEnv:%s          %s=%s\n", colorDim, colorReset, k, v)
			}
			for _, dep := range fn.Dependencies {
				cmd.Printf("%sDependency:%s   %s\n", colorDim, colorReset, dep)
			}
			return
		}

		resp, err := client.ListFunctions()
		if err != nil {
			printClientError(cmd, err)
			return
		}

		if len(resp.Functions) == 0 {
			cmd.Println("No functions registered")
			return
		}

		for _, fn := range resp.Functions {
			cmd.Printf("%s  (%s)\n", fn.Title, fn.Entrypoint)
		}
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
