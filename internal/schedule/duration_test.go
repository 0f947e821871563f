package schedule_test

import (
	"testing"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		hours     float64
		overnight bool
		is24h     bool
	}{
		{"day shift", "08:00", "20:00", 12, false, false},
		{"overnight", "22:00", "06:00", 8, true, false},
		{"equal times mean a full day", "08:00", "08:00", 24, true, true},
		{"half hours round to two decimals", "08:00", "16:30", 8.5, false, false},
		{"one minute shift", "08:00", "08:01", 0.02, false, false},
		{"ends one minute before start", "08:00", "07:59", 23.98, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := schedule.ComputeDuration("2025-03-10", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.hours, d.Hours)
			assert.Equal(t, tt.overnight, d.IsOvernight)
			assert.Equal(t, tt.is24h, d.Is24h)
		})
	}
}

func TestComputeDurationRejectsMalformedTimes(t *testing.T) {
	_, err := schedule.ComputeDuration("2025-03-10", "8 o'clock", "20:00")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = schedule.ComputeDuration("2025-03-10", "08:00", "25:99")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
