package cron

import (
	"ReaView/internal/api/config"
	"ReaView/internal/job"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{}, &job.PosterBackfillJob{}, &job.SlotReconcileJob{})
	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 2)
	assert.Equal(t, defaultPosterSpec, mgr.cfg.PosterBackfill)
}

func TestRegisterJobsRejectsBadSpec(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{PosterBackfill: "every minute"}, &job.PosterBackfillJob{}, nil)
	assert.Error(t, mgr.RegisterJobs())
}

func TestRegisterSkipsMissingJobs(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{}, nil, nil)
	require.NoError(t, mgr.RegisterJobs())
	assert.Empty(t, mgr.engine.Entries())
}
