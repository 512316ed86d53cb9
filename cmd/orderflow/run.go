package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	orderflow "github.com/nexustrade/orderflow"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Process order requests from the terminal",
	Long: `Processes a single request given as an argument, or starts an
interactive loop reading requests from standard input.`,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")

		engine, _, _, err := buildEngine(cmd, false)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()

		if len(args) > 0 {
			reply, runErr := engine.Reply(ctx, strings.Join(args, " "))
			if reply != "" {
				fmt.Println(reply)
			}
			if runErr != nil {
				if reply == "" {
					fmt.Printf("Error: %v\n", runErr)
				}
				os.Exit(1)
			}
			return
		}

		r := orderflow.NewRunner()
		r.Input = os.Stdin
		r.Output = os.Stdout
		r.Headless = headless

		if err := r.Run(ctx, engine); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
}
