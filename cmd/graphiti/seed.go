package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphiti-systems/graphiti/internal/seeder"
)

var (
	seedURL     string
	seedCount   int
	seedSpread  time.Duration
	seedBatch   int
	seedProfile string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic telemetry against a running instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := seeder.LoadProfile(seedProfile)
		if err != nil {
			return err
		}

		gen := seeder.NewGenerator(profile)
		runner := seeder.NewRunner(seedURL)

		sent, err := runner.Run(gen, seedCount, seedSpread, seedBatch)
		if err != nil {
			return fmt.Errorf("seeding failed after %d events: %w", sent, err)
		}

		fmt.Printf("Seeded %d events over %s\n", sent, seedSpread)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedURL, "url", "http://localhost:8095", "graphiti base URL")
	seedCmd.Flags().IntVar(&seedCount, "count", 500, "number of events to generate")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", 10*time.Minute, "time window to spread events over")
	seedCmd.Flags().IntVar(&seedBatch, "batch", 50, "events per HTTP batch")
	seedCmd.Flags().StringVar(&seedProfile, "profile", "", "YAML profile file")

	rootCmd.AddCommand(seedCmd)
}
