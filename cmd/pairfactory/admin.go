// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/pairfactory/codec"
)

var feeToCmd = &cobra.Command{
	Use:   "fee-to",
	Short: "Get the protocol fee recipient",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		feeTo, err := cli.FeeTo(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, addressResponse{Address: feeTo})
	},
}

var feeToSetterCmd = &cobra.Command{
	Use:   "fee-to-setter",
	Short: "Get the address allowed to change fee settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		setter, err := cli.FeeToSetter(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, addressResponse{Address: setter})
	},
}

var setFeeToCmd = &cobra.Command{
	Use:   "set-fee-to <address>",
	Short: "Set the protocol fee recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAddress(cmd, args[0], func(cmd *cobra.Command, actor codec.Address, address codec.Address) error {
			cli, err := newClient(cmd)
			if err != nil {
				return err
			}
			return cli.SetFeeTo(cmd.Context(), actor, address)
		})
	},
}

var setFeeToSetterCmd = &cobra.Command{
	Use:   "set-fee-to-setter <address>",
	Short: "Transfer fee administration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAddress(cmd, args[0], func(cmd *cobra.Command, actor codec.Address, address codec.Address) error {
			cli, err := newClient(cmd)
			if err != nil {
				return err
			}
			return cli.SetFeeToSetter(cmd.Context(), actor, address)
		})
	},
}

func setAddress(
	cmd *cobra.Command,
	arg string,
	f func(*cobra.Command, codec.Address, codec.Address) error,
) error {
	address, err := codec.ParseAddress(arg)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	actor, err := getAddressValue(cmd, "actor")
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if err := f(cmd, actor, address); err != nil {
		return err
	}
	return printValue(cmd, addressResponse{Address: address})
}

func init() {
	rootCmd.AddCommand(feeToCmd, feeToSetterCmd, setFeeToCmd, setFeeToSetterCmd)
}
