package main

import (
	"os"

	"github.com/spf13/cobra"

	"RiskMonitor/internal/config"
)

const configEnv = "RISK_MONITOR_CONFIG"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskmonitor",
		Short:         "News risk monitor for Hashed",
		Long:          `riskmonitor collects news mentioning Hashed, classifies relevance, sentiment and risk, and serves the review dashboard API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", os.Getenv(configEnv), "path to YAML config (env "+configEnv+")")

	root.AddCommand(newCollectCmd(), newServeCmd(), newClassifyCmd())
	return root
}

func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	return config.LoadFile(path)
}
