package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	orderflow "github.com/nexustrade/orderflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of orderflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orderflow version %s\n", strings.TrimSpace(orderflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
