// Package dataset produces and publishes the synthetic evaluation dataset for
// the triage workflow: patient scenarios across CTAS levels 1-5 with expected
// triage outcomes, written as JSONL and registered with the hosted dataset
// store under a name/version pair.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"
)

// Record is one evaluation row: the triage request prompt, the expected
// response and the scenario metadata used for slicing results.
type Record struct {
	PatientName    string `json:"patient_name"`
	PatientDOB     string `json:"patient_dob"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ExpectedCTAS   int    `json:"expected_ctas_level"`
	ScenarioType   string `json:"scenario_type"`
	ChiefComplaint string `json:"chief_complaint"`
	PainLevel      string `json:"pain_level"`
	Onset          string `json:"onset"`
}

// Uploader registers a dataset file with the hosted store. EnsureDataset
// returns the dataset id for the name/version pair, uploading the file only
// when that version does not exist yet.
type Uploader interface {
	EnsureDataset(ctx context.Context, name, version, path string) (string, error)
}

// Options configure the generator.
type Options struct {
	// Seed drives patient demographics. A fixed seed keeps output reproducible.
	Seed int64
	// ReferenceYear anchors the generated ages. Defaults to the current year.
	ReferenceYear int
}

// Generator builds the synthetic scenario set.
type Generator struct {
	opts Options
}

// NewGenerator constructs a Generator with optional overrides.
func NewGenerator(optFns ...func(o *Options)) *Generator {
	opts := Options{
		Seed:          1,
		ReferenceYear: time.Now().Year(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Generator{opts: opts}
}

// Generate returns one record per scenario, pairing each scenario with a
// distinct patient.
func (g *Generator) Generate() []Record {
	rng := rand.New(rand.NewSource(g.opts.Seed))
	scenarios := allScenarios()
	records := make([]Record, 0, len(scenarios))

	for i, sc := range scenarios {
		name := patientNames[i%len(patientNames)]
		dob := g.birthDate(rng)
		input, err := renderInput(name, dob, sc)
		if err != nil {
			// Template and data are package-owned; a render failure is a bug.
			panic(fmt.Sprintf("render scenario input: %v", err))
		}
		records = append(records, Record{
			PatientName:    name,
			PatientDOB:     dob,
			Input:          input,
			ExpectedOutput: renderExpected(sc),
			ExpectedCTAS:   sc.CTAS,
			ScenarioType:   fmt.Sprintf("CTAS Level %d", sc.CTAS),
			ChiefComplaint: sc.ChiefComplaint,
			PainLevel:      sc.PainLevel,
			Onset:          sc.Onset,
		})
	}

	return records
}

// birthDate generates a birth date for ages 25-85, day range kept safe for
// every month.
func (g *Generator) birthDate(rng *rand.Rand) string {
	age := 25 + rng.Intn(61)
	year := g.opts.ReferenceYear - age
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(28)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// WriteJSONL writes the records to w, one JSON object per line.
func WriteJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record for %s: %w", r.PatientName, err)
		}
	}
	return nil
}

// WriteFile writes the records as JSONL to path.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteJSONL(f, records); err != nil {
		return err
	}
	return f.Sync()
}
