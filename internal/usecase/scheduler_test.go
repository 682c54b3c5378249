package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskMonitor/internal/classifier"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestScheduler_RunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	pipeline := NewPipeline(PipelineDeps{
		Source:     fakeSource{articles: candidates},
		Classifier: classifier.New(classifier.DefaultTables(), nil),
		Notifier:   notifier,
	})
	driver := &manualDriver{}
	s := NewScheduler(driver, pipeline, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, driver.job)

	driver.job(time.Now())
	assert.Len(t, notifier.summaries, 1)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestScheduler_NilDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
