package main

import (
	"github.com/spf13/cobra"
	"github.com/triagemesh/triagemesh/config"
	"github.com/triagemesh/triagemesh/redteam"
)

func redteamCmd() *cobra.Command {
	var (
		target     string
		strategies []string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "redteam",
		Short: "Submit an adversarial scan of the triage deployment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			if target == "" {
				target = cfg.ModelDeployment
			}

			scan := redteam.DefaultScan(target)
			if len(strategies) > 0 {
				scan.Strategies = scan.Strategies[:0]
				for _, s := range strategies {
					scan.Strategies = append(scan.Strategies, redteam.AttackStrategy(s))
				}
			}
			if len(categories) > 0 {
				scan.Categories = scan.Categories[:0]
				for _, c := range categories {
					scan.Categories = append(scan.Categories, redteam.RiskCategory(c))
				}
			}

			runner := redteam.NewRunner(
				redteam.NewHTTPSubmitter(cfg.Endpoint, cfg.APIKey),
				func(o *redteam.Options) {
					o.Logger = newLogger()
				},
			)

			name, err := runner.Run(cmd.Context(), scan)
			if err != nil {
				return err
			}
			cmd.Printf("red team scan submitted: %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target model deployment (defaults to the configured deployment)")
	cmd.Flags().StringSliceVar(&strategies, "strategy", nil, "attack strategies (base64, flip, rot13)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "risk categories (hate_unfairness, violence, self_harm)")

	return cmd
}
