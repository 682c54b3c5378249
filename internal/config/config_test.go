package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskMonitor/internal/classifier"
)

const sampleYAML = `
logging:
  level: debug
scheduler:
  collectAt: "07:30"
  timezone: UTC
naver:
  display: 50
ai:
  timeout: 5s
classifier:
  searchKeywords: ["Acme", "에이크미"]
  categories:
    - name: legal
      keywords: [lawsuit]
    - name: other
sites:
  - name: acme-news
    scanner: naver
`

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env/db")
	t.Setenv(telegramChatIDEnv, "42")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, "42", cfg.Notifications.Telegram.ChatID)
	assert.Equal(t, 50, cfg.Naver.Display)
	assert.Equal(t, 500, cfg.Naver.MaxArticles, "unset values keep defaults")
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 4, cfg.Classifier.Workers)
	assert.Equal(t, time.UTC.String(), cfg.Scheduler.Location().String())

	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, []string{"Acme", "에이크미"}, cfg.Sites[0].Queries)

	hour, minute, err := cfg.Scheduler.ClockTime()
	require.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 30, minute)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	assert.Equal(t, "09:00", cfg.Scheduler.CollectAt)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, classifier.DefaultSearchKeywords, cfg.Sites[0].Queries)
}

func TestClassifierConfig_Tables(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	tables := cfg.Classifier.Tables()
	defaults := classifier.DefaultTables()

	assert.Equal(t, []string{"Acme", "에이크미"}, tables.SearchKeywords)
	assert.Equal(t, []classifier.Category{
		{Name: "legal", Keywords: []string{"lawsuit"}},
		{Name: "other"},
	}, tables.Categories)
	assert.Equal(t, defaults.HighRiskTerms, tables.HighRiskTerms, "unset tables keep built-in values")
}

func TestClockTime_Invalid(t *testing.T) {
	t.Parallel()

	_, _, err := SchedulerConfig{CollectAt: "9 o'clock"}.ClockTime()
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("logging: [unterminated"))
	assert.Error(t, err)
}
