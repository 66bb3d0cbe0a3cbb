// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/pairfactory/codec"
)

var createPairCmd = &cobra.Command{
	Use:   "create-pair <tokenA> <tokenB>",
	Short: "Deploy the pair for two tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenA, tokenB, err := parseTokens(args)
		if err != nil {
			return err
		}
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		created, err := cli.CreatePair(cmd.Context(), tokenA, tokenB)
		if err != nil {
			return err
		}
		return printValue(cmd, pairCreatedResponse{
			pairResponse: pairResponse{
				Token0: created.Token0,
				Token1: created.Token1,
				Pair:   created.Pair,
			},
			AllPairsLength: created.AllPairsLength,
		})
	},
}

var getPairCmd = &cobra.Command{
	Use:   "get-pair <tokenA> <tokenB>",
	Short: "Look up the pair for two tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenA, tokenB, err := parseTokens(args)
		if err != nil {
			return err
		}
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		address, exists, err := cli.GetPair(cmd.Context(), tokenA, tokenB)
		if err != nil {
			return err
		}
		return printValue(cmd, getPairResponse{
			Pair:   address,
			Exists: exists,
		})
	},
}

var allPairsCmd = &cobra.Command{
	Use:   "all-pairs <index>",
	Short: "Get the pair created at a position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		address, err := cli.AllPairs(cmd.Context(), index)
		if err != nil {
			return err
		}
		return printValue(cmd, addressResponse{Address: address})
	},
}

var allPairsLengthCmd = &cobra.Command{
	Use:   "all-pairs-length",
	Short: "Get the number of pairs created",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		length, err := cli.AllPairsLength(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, lengthResponse{Length: length})
	},
}

type pairCreatedResponse struct {
	pairResponse
	AllPairsLength uint64 `json:"allPairsLength"`
}

func (r pairCreatedResponse) String() string {
	return fmt.Sprintf("%s allPairsLength=%d", r.pairResponse, r.AllPairsLength)
}

type getPairResponse struct {
	Pair   codec.Address `json:"pair"`
	Exists bool          `json:"exists"`
}

func (r getPairResponse) String() string {
	if !r.Exists {
		return "pair does not exist"
	}
	return r.Pair.String()
}

type lengthResponse struct {
	Length uint64 `json:"length"`
}

func (r lengthResponse) String() string {
	return strconv.FormatUint(r.Length, 10)
}

func init() {
	rootCmd.AddCommand(createPairCmd, getPairCmd, allPairsCmd, allPairsLengthCmd)
}
