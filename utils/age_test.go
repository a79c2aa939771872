package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth string
		at    time.Time
		want  int
	}{
		{"birthday already passed this year", "1990-03-15", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 34},
		{"birthday later this year", "1990-09-15", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 33},
		{"on the birthday itself", "1990-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 34},
		{"day before the birthday", "1990-06-02", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 33},
		{"same month earlier day", "1990-06-30", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 33},
		{"leap day birth, non-leap year", "2000-02-29", time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), 22},
		{"leap day birth, leap year on the day", "2000-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 24},
		{"newborn", "2024-05-20", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AgeAt(tt.birth, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every call site shares one implementation, so repeated evaluations of the
// same (birthDate, today) pair must agree.
func TestAgeAtIsDeterministic(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	first, err := AgeAt("1985-12-24", at)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := AgeAt("1985-12-24", at)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAgeAtRejectsBadInput(t *testing.T) {
	_, err := AgeAt("24-12-1985", time.Now())
	assert.Error(t, err)

	_, err = AgeAt("2999-01-01", time.Now())
	assert.Error(t, err)
}
