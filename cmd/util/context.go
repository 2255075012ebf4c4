package util

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/pkg/config"
	"github.com/gridqueue/gridbroker/pkg/node"
)

type contextKey struct {
	name string
}

var configKey = contextKey{name: "context key for the broker configuration"}

// ContextWithConfig stores the loaded configuration for subcommands.
func ContextWithConfig(ctx context.Context, cfg config.BrokerConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func GetConfig(cmd *cobra.Command) (config.BrokerConfig, error) {
	cfg, ok := cmd.Context().Value(configKey).(config.BrokerConfig)
	if !ok {
		return config.BrokerConfig{}, errors.New("configuration was not loaded")
	}
	return cfg, nil
}

// NewNode builds a broker node from the loaded configuration. Callers must Close it.
func NewNode(cmd *cobra.Command) (*node.Node, error) {
	cfg, err := GetConfig(cmd)
	if err != nil {
		return nil, err
	}
	return node.NewNode(cmd.Context(), cfg)
}
