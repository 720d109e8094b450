package cmd

import (
	"github.com/spf13/cobra"
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and trigger server maintenance tasks",
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
