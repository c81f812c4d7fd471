package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/triagemesh/triagemesh/config"
	"github.com/triagemesh/triagemesh/dataset"
	datasetopenai "github.com/triagemesh/triagemesh/dataset/openai"
)

func generateDataCmd() *cobra.Command {
	var (
		output string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "generate-data",
		Short: "Generate the synthetic CTAS evaluation dataset as JSONL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := dataset.NewGenerator(func(o *dataset.Options) {
				o.Seed = seed
			})
			records := gen.Generate()
			if err := dataset.WriteFile(output, records); err != nil {
				return err
			}

			counts := map[int]int{}
			for _, r := range records {
				counts[r.ExpectedCTAS]++
			}
			cmd.Printf("generated %d evaluation scenarios -> %s\n", len(records), output)
			for level := 1; level <= 5; level++ {
				cmd.Printf("  CTAS level %d: %d scenarios\n", level, counts[level])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "config/evaluation_data.jsonl", "output JSONL path")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for patient demographics")

	return cmd
}

func newDatasetUploader(cfg *config.Config) dataset.Uploader {
	return datasetopenai.NewUploader(func(o *datasetopenai.Options) {
		o.APIKey = cfg.APIKey
		o.BaseURL = cfg.Endpoint
	})
}

func uploadDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload-dataset",
		Short: "Register the evaluation dataset with the hosted store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			uploader := newDatasetUploader(cfg)

			id, err := uploader.EnsureDataset(cmd.Context(), cfg.Dataset.Name, cfg.Dataset.Version, cfg.Dataset.File)
			if err != nil {
				return fmt.Errorf("upload dataset %s@%s: %w", cfg.Dataset.Name, cfg.Dataset.Version, err)
			}
			cmd.Printf("dataset %s@%s registered as %s\n", cfg.Dataset.Name, cfg.Dataset.Version, id)
			return nil
		},
	}

	return cmd
}
