// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/pairfactory/api/jsonrpc"
	"github.com/ava-labs/pairfactory/codec"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		return printValue(cmd, endpointCmdResponse{
			Endpoint: endpoint,
		})
	},
}

var endpointSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the endpoint URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to get endpoint flag: %w", err)
		}
		if endpoint == "" {
			return errors.New("endpoint is required")
		}
		if err := setConfigValue("endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, endpointCmdResponse{
			Endpoint: endpoint,
		})
	},
}

var endpointPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		success, err := cli.Ping(cmd.Context())
		return printValue(cmd, pingResponse{
			Success: success,
			Error:   errorString(err),
		})
	},
}

var actorCmd = &cobra.Command{
	Use:   "actor",
	Short: "Show or set the address admin calls are issued as",
	RunE: func(cmd *cobra.Command, _ []string) error {
		actor, err := getAddressValue(cmd, "actor")
		if err != nil {
			return fmt.Errorf("failed to get actor: %w", err)
		}
		if cmd.Flags().Changed("actor") {
			if err := setConfigValue("actor", actor.String()); err != nil {
				return fmt.Errorf("failed to update config: %w", err)
			}
		}
		return printValue(cmd, addressResponse{Address: actor})
	},
}

func newClient(cmd *cobra.Command) (*jsonrpc.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return jsonrpc.NewJSONRPCClient(endpoint), nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type endpointCmdResponse struct {
	Endpoint string `json:"endpoint"`
}

func (r endpointCmdResponse) String() string {
	return r.Endpoint
}

type pingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r pingResponse) String() string {
	if r.Error != "" {
		return "✗ " + r.Error
	}
	return "✓ pong"
}

type addressResponse struct {
	Address codec.Address `json:"address"`
}

func (r addressResponse) String() string {
	return r.Address.String()
}

func init() {
	endpointCmd.AddCommand(endpointSetCmd, endpointPingCmd)
	rootCmd.AddCommand(endpointCmd, actorCmd)
}
