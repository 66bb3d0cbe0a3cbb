// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/pairfactory/config"
	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/genesis"
	"github.com/ava-labs/pairfactory/node"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a pairfactory node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadNodeConfig(cmd)
		if err != nil {
			return err
		}
		g, err := loadGenesis(cmd)
		if err != nil {
			return err
		}

		logFactory := node.NewLogFactory(cfg)
		defer logFactory.Close()
		log, err := logFactory.Make(consts.Name)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		listener, err := net.Listen("tcp", cfg.HTTPAddress)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddress, err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		n, err := node.New(ctx, log, cfg, g, listener)
		if err != nil {
			_ = listener.Close()
			return err
		}
		log.Info("node started",
			zap.String("uri", n.URI()),
			zap.Stringer("factory", g.FactoryAddress()),
		)
		return n.Run(ctx)
	},
}

func loadNodeConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	var b []byte
	if path != "" {
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if address, _ := cmd.Flags().GetString("http-address"); address != "" {
		cfg.HTTPAddress = address
	}
	return cfg, nil
}

func loadGenesis(cmd *cobra.Command) (*genesis.Genesis, error) {
	path, err := cmd.Flags().GetString("genesis")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return genesis.Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	return genesis.New(b)
}

func init() {
	serveCmd.Flags().String("config", "", "Path to a JSON node config")
	serveCmd.Flags().String("genesis", "", "Path to a JSON genesis (defaults to the local network genesis)")
	serveCmd.Flags().String("db", "", "Database directory (overrides the config, empty keeps state in memory)")
	serveCmd.Flags().String("http-address", "", "Listen address (overrides the config)")
	rootCmd.AddCommand(serveCmd)
}
