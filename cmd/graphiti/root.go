package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "graphiti",
	Short: "Observability event-correlation and graph-aggregation engine",
	Long: `graphiti ingests heterogeneous telemetry events, maintains a
multi-key correlation index, computes rolling metrics, and derives a
live entity graph of agents, tasks, and tools. Old events are archived
to durable batch storage under a configurable retention policy.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, /etc/graphiti/config.yaml)")
}
