package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskMonitor/internal/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(configEnv, "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := runCLI(t, "classify", "--title", "해시드, 투자 사기 혐의로 검찰 수사")
	require.NoError(t, err)

	var result domain.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.IsRelevant)
	assert.Equal(t, domain.RiskRed, result.RiskLevel)
	assert.Equal(t, 90, result.RiskScore)
}

func TestClassifyCommand_Irrelevant(t *testing.T) {
	out, err := runCLI(t, "classify", "--title", "How passwords are hashed and stored")
	require.NoError(t, err)

	var result domain.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.IsRelevant)
	assert.Equal(t, domain.RiskGreen, result.RiskLevel)
}

func TestClassifyCommand_RequiresText(t *testing.T) {
	_, err := runCLI(t, "classify")
	assert.Error(t, err)
}
