package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/triagemesh/triagemesh"
	"github.com/triagemesh/triagemesh/config"
	"github.com/triagemesh/triagemesh/orchestrate"
)

func runCmd() *cobra.Command {
	var (
		prompt  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision the fleet, execute the triage conversation and evaluate it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			mesh, err := triagemesh.New(cfg, func(o *triagemesh.Options) {
				o.Logger = newLogger()
				o.Timeout = timeout
			})
			if err != nil {
				return err
			}

			var result *orchestrate.Result
			if prompt != "" {
				result, err = mesh.RunWith(cmd.Context(), prompt)
			} else {
				result, err = mesh.Run(cmd.Context())
			}
			if err != nil {
				return err
			}

			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "override the configured user prompt")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "maximum wait for the remote run")

	return cmd
}

func printResult(cmd *cobra.Command, result *orchestrate.Result) error {
	cmd.Printf("orchestration run %s\n", result.OrchestrationID)
	cmd.Printf("thread %s, run %s\n\n", result.Transcript.ThreadID, result.Transcript.RunID)
	for _, m := range result.Transcript.Messages {
		cmd.Printf("[%s] %s\n", m.Role, m.Text)
	}
	cmd.Println()
	for name, outcome := range result.Record {
		if outcome.OK() {
			cmd.Printf("%-22s score=%.1f  %s\n", name, outcome.Result.Score, outcome.Result.Reason)
		} else {
			cmd.Printf("%-22s ERROR: %v\n", name, outcome.Err.Cause)
		}
	}
	if failed := result.Record.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d evaluator(s) failed: %v", len(failed), failed)
	}
	return nil
}
