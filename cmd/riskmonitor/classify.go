package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"RiskMonitor/internal/classifier"
)

func newClassifyCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single article and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if title == "" && description == "" {
				return errors.New("classify: --title or --description is required")
			}

			cfg := loadConfig(cmd)
			result := classifier.New(cfg.Classifier.Tables(), nil).Classify(title, description)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&description, "description", "", "article description")
	return cmd
}
