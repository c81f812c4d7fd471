package redteam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	scan Scan
	name string
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, scan Scan) (string, error) {
	f.scan = scan
	if f.err != nil {
		return "", f.err
	}
	return f.name, nil
}

func TestDefaultScan(t *testing.T) {
	scan := DefaultScan("gpt-4.1-agent")

	assert.Equal(t, "red-team-cloud-run", scan.DisplayName)
	assert.Equal(t, "gpt-4.1-agent", scan.TargetDeployment)
	assert.Equal(t, []AttackStrategy{AttackStrategyBase64}, scan.Strategies)
	assert.Equal(t, []RiskCategory{RiskCategoryHateUnfairness, RiskCategoryViolence}, scan.Categories)
}

func TestRunner_Run(t *testing.T) {
	sub := &fakeSubmitter{name: "scan-123"}
	runner := NewRunner(sub)

	name, err := runner.Run(context.Background(), DefaultScan("gpt-4.1-agent"))
	require.NoError(t, err)
	assert.Equal(t, "scan-123", name)
	assert.Equal(t, "gpt-4.1-agent", sub.scan.TargetDeployment)
}

func TestRunner_Run_Validation(t *testing.T) {
	runner := NewRunner(&fakeSubmitter{name: "scan-123"})

	_, err := runner.Run(context.Background(), Scan{
		Strategies: []AttackStrategy{AttackStrategyBase64},
		Categories: []RiskCategory{RiskCategoryViolence},
	})
	assert.Error(t, err, "missing target deployment")

	_, err = runner.Run(context.Background(), Scan{
		TargetDeployment: "gpt-4.1-agent",
		Categories:       []RiskCategory{RiskCategoryViolence},
	})
	assert.Error(t, err, "missing attack strategies")

	_, err = runner.Run(context.Background(), Scan{
		TargetDeployment: "gpt-4.1-agent",
		Strategies:       []AttackStrategy{AttackStrategyBase64},
	})
	assert.Error(t, err, "missing risk categories")
}

func TestRunner_Run_SubmitFailure(t *testing.T) {
	cause := errors.New("service unavailable")
	runner := NewRunner(&fakeSubmitter{err: cause})

	_, err := runner.Run(context.Background(), DefaultScan("gpt-4.1-agent"))
	require.ErrorIs(t, err, cause)
}

func TestHTTPSubmitter_Submit(t *testing.T) {
	var gotBody scanRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/redTeams/runs:run", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "scan-remote-1"})
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, "secret")
	name, err := sub.Submit(context.Background(), DefaultScan("gpt-4.1-agent"))
	require.NoError(t, err)

	assert.Equal(t, "scan-remote-1", name)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "red-team-cloud-run", gotBody.DisplayName)
	assert.Equal(t, "gpt-4.1-agent", gotBody.TargetDeployment)
	assert.Equal(t, []string{"base64"}, gotBody.AttackStrategies)
	assert.Equal(t, []string{"hate_unfairness", "violence"}, gotBody.RiskCategories)
}

func TestHTTPSubmitter_Submit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, "")
	_, err := sub.Submit(context.Background(), DefaultScan("gpt-4.1-agent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}
