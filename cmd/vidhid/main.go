package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidhi-labs/vidhiai/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vidhid",
		Short: "Vidhi daemon and CLI",
		Long:  "Vidhi daemon for running the legal assistant API server and seeding shared corpora",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
