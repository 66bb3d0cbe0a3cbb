// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/pairfactory/consts"
)

var rootCmd = &cobra.Command{
	Use:     consts.Name,
	Short:   "Deterministic AMM pair registry",
	Long:    `Run a pairfactory node or interact with one over JSON-RPC.`,
	Version: consts.Version,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	rootCmd.PersistentFlags().String("actor", "", "Address the admin calls are issued as")
}

func main() {
	Execute()
}
