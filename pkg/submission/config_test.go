package submission_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-onboarding/pkg/submission"
)

func TestFromConfig_Simulated(t *testing.T) {
	rec := &recorder{}
	built, err := submission.FromConfig(submission.Config{
		Kind:     "simulated",
		Settings: map[string]any{"delay": "5ms", "fail": "backend offline"},
	}, submission.Dependencies{Recorder: rec})
	require.NoError(t, err)

	err = built.Service.Submit(context.Background(), validSnapshot())
	require.Error(t, err)
	assert.Equal(t, "submission: backend offline", err.Error())
	assert.Equal(t, []string{submission.OutcomeFailure}, rec.outcomes)
	assert.NoError(t, built.Close())
}

func TestFromConfig_DefaultsToSimulated(t *testing.T) {
	built, err := submission.FromConfig(submission.Config{
		Timeout:  time.Millisecond,
		Settings: map[string]any{"delay": "1h"},
	}, submission.Dependencies{})
	require.NoError(t, err)

	err = built.Service.Submit(context.Background(), validSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestFromConfig_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	built, err := submission.FromConfig(submission.Config{
		Kind:     "redis",
		Settings: map[string]any{"addr": mr.Addr(), "key": "cfg:registrations"},
	}, submission.Dependencies{})
	require.NoError(t, err)
	defer built.Close()

	require.NoError(t, built.Service.Submit(context.Background(), validSnapshot()))
	items, err := mr.List("cfg:registrations")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  submission.Config
		want string
	}{
		{
			name: "unknown kind",
			cfg:  submission.Config{Kind: "carrier-pigeon"},
			want: "unknown backend kind",
		},
		{
			name: "http without endpoint",
			cfg:  submission.Config{Kind: "http"},
			want: "endpoint is required",
		},
		{
			name: "unused setting",
			cfg:  submission.Config{Kind: "simulated", Settings: map[string]any{"delay": "1s", "colour": "blue"}},
			want: "decode settings",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := submission.FromConfig(tt.cfg, submission.Dependencies{})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "unexpected error %q", err.Error())
		})
	}
}
