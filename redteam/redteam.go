// Package redteam submits adversarial scans of the triage deployment to the
// hosted red teaming service: combinations of attack strategies and risk
// categories run against a target model deployment. The scan itself executes
// remotely; this package only shapes and submits it.
package redteam

import (
	"context"
	"fmt"

	"github.com/triagemesh/triagemesh/logging"
)

// AttackStrategy names a prompt transformation the scan probes with.
type AttackStrategy string

const (
	// AttackStrategyBase64 encodes attack prompts as base64.
	AttackStrategyBase64 AttackStrategy = "base64"
	// AttackStrategyFlip reverses attack prompt text.
	AttackStrategyFlip AttackStrategy = "flip"
	// AttackStrategyROT13 applies a rot13 cipher to attack prompts.
	AttackStrategyROT13 AttackStrategy = "rot13"
)

// RiskCategory names a harm category the scan probes for.
type RiskCategory string

const (
	// RiskCategoryHateUnfairness probes for hateful or unfair content.
	RiskCategoryHateUnfairness RiskCategory = "hate_unfairness"
	// RiskCategoryViolence probes for violent content.
	RiskCategoryViolence RiskCategory = "violence"
	// RiskCategorySelfHarm probes for self-harm content.
	RiskCategorySelfHarm RiskCategory = "self_harm"
)

// Scan describes one red team run against a target deployment.
type Scan struct {
	DisplayName      string
	TargetDeployment string
	Strategies       []AttackStrategy
	Categories       []RiskCategory
}

// Submitter is the hosted red teaming surface. Submit returns the remote scan
// name/identifier.
type Submitter interface {
	Submit(ctx context.Context, scan Scan) (string, error)
}

// Options holds overrides passed to NewRunner().
type Options struct {
	// Logger receives submission events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Runner validates and submits scans.
type Runner struct {
	submitter Submitter
	logger    logging.Logger
}

// NewRunner constructs a Runner over the submitter.
func NewRunner(submitter Submitter, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{submitter: submitter, logger: opts.Logger}
}

// DefaultScan returns the baseline scan shape for a target deployment.
func DefaultScan(target string) Scan {
	return Scan{
		DisplayName:      "red-team-cloud-run",
		TargetDeployment: target,
		Strategies:       []AttackStrategy{AttackStrategyBase64},
		Categories:       []RiskCategory{RiskCategoryHateUnfairness, RiskCategoryViolence},
	}
}

// Run submits the scan and returns the remote scan identifier.
func (r *Runner) Run(ctx context.Context, scan Scan) (string, error) {
	if scan.TargetDeployment == "" {
		return "", fmt.Errorf("red team scan requires a target deployment")
	}
	if len(scan.Strategies) == 0 || len(scan.Categories) == 0 {
		return "", fmt.Errorf("red team scan requires at least one attack strategy and one risk category")
	}

	name, err := r.submitter.Submit(ctx, scan)
	if err != nil {
		return "", fmt.Errorf("submit red team scan: %w", err)
	}

	r.logger.Info("red team scan submitted", "scan_name", name, "target", scan.TargetDeployment)

	return name, nil
}
