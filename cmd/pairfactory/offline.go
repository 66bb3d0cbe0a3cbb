// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/pairfactory/codec"
	"github.com/ava-labs/pairfactory/genesis"
	"github.com/ava-labs/pairfactory/pair"
)

var pairAddressCmd = &cobra.Command{
	Use:   "pair-address <tokenA> <tokenB>",
	Short: "Compute a pair address without contacting a node",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenA, tokenB, err := parseTokens(args)
		if err != nil {
			return err
		}
		factory := genesis.Default().FactoryAddress()
		if value, _ := cmd.Flags().GetString("factory"); value != "" {
			factory, err = codec.ParseAddress(value)
			if err != nil {
				return fmt.Errorf("invalid factory: %w", err)
			}
		}
		address, err := pair.Address(factory, tokenA, tokenB)
		if err != nil {
			return err
		}
		token0, token1 := pair.SortTokens(tokenA, tokenB)
		return printValue(cmd, pairResponse{
			Token0: token0,
			Token1: token1,
			Pair:   address,
		})
	},
}

var codeHashCmd = &cobra.Command{
	Use:   "code-hash",
	Short: "Print the pair code hash used in address derivation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printValue(cmd, codeHashResponse{
			CodeHash: codec.Bytes(pair.CodeHash.Bytes()),
		})
	},
}

type pairResponse struct {
	Token0 codec.Address `json:"token0"`
	Token1 codec.Address `json:"token1"`
	Pair   codec.Address `json:"pair"`
}

func (r pairResponse) String() string {
	return fmt.Sprintf("token0=%s token1=%s pair=%s", r.Token0, r.Token1, r.Pair)
}

type codeHashResponse struct {
	CodeHash codec.Bytes `json:"codeHash"`
}

func (r codeHashResponse) String() string {
	return r.CodeHash.String()
}

func init() {
	pairAddressCmd.Flags().String("factory", "", "Factory address (defaults to the local network factory)")
	rootCmd.AddCommand(pairAddressCmd, codeHashCmd)
}
