package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(func(o *Options) {
		o.Seed = 42
		o.ReferenceYear = 2025
	})

	records := gen.Generate()
	require.Len(t, records, 10)

	counts := map[int]int{}
	for _, r := range records {
		counts[r.ExpectedCTAS]++
		assert.NotEmpty(t, r.PatientName)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, r.PatientDOB)
		assert.Contains(t, r.Input, r.PatientName)
		assert.Contains(t, r.Input, r.ChiefComplaint)
		assert.Contains(t, r.Input, "Patient Triage Request")
		assert.Contains(t, r.ExpectedOutput, "CTAS Level:")
		assert.Contains(t, r.ScenarioType, "CTAS Level")
	}
	for level := 1; level <= 5; level++ {
		assert.Equal(t, 2, counts[level], "two scenarios per CTAS level %d", level)
	}
}

func TestGenerator_Generate_Deterministic(t *testing.T) {
	opt := func(o *Options) {
		o.Seed = 7
		o.ReferenceYear = 2025
	}
	first := NewGenerator(opt).Generate()
	second := NewGenerator(opt).Generate()
	assert.Equal(t, first, second)
}

func TestGenerator_Generate_DistinctPatients(t *testing.T) {
	records := NewGenerator().Generate()

	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.PatientName], "patient %s assigned twice", r.PatientName)
		seen[r.PatientName] = true
	}
}

func TestWriteJSONL(t *testing.T) {
	records := NewGenerator(func(o *Options) {
		o.ReferenceYear = 2025
	}).Generate()

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, records))

	scanner := bufio.NewScanner(&buf)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lines := 0
	for scanner.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		assert.NotZero(t, r.ExpectedCTAS)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, len(records), lines)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluation_data.jsonl")
	records := NewGenerator().Generate()

	require.NoError(t, WriteFile(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(records), bytes.Count(data, []byte("\n")))

	var first Record
	line, _, _ := bytes.Cut(data, []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &first))
	assert.Equal(t, records[0].PatientName, first.PatientName)
}
