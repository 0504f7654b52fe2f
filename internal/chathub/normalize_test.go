package chathub_test

import (
	"testing"

	"hospitalchat/backend/internal/chathub"
	"hospitalchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		cohort models.Cohort
		raw    string
		want   string
	}{
		{models.CohortPatient, "001", "001"},
		{models.CohortPatient, "patient-001", "001"},
		{models.CohortPatient, " patient-001 ", "001"},
		{models.CohortPatient, "patient- 001", "001"},
		{models.CohortPatient, "staff-001", "staff-001"},
		{models.CohortStaff, "staff-42", "42"},
		{models.CohortStaff, "  42\t", "42"},
		{models.CohortStaff, "staff-", ""},
		{models.CohortStaff, "", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.cohort)+"/"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, chathub.NormalizeID(tt.cohort, tt.raw))
		})
	}
}

func TestIsReservedID(t *testing.T) {
	assert.True(t, chathub.IsReservedID(models.CohortStaff, "room"))
	assert.True(t, chathub.IsReservedID(models.CohortPatient, chathub.NormalizeID(models.CohortPatient, "patient-room")))
	assert.False(t, chathub.IsReservedID(models.CohortStaff, "rooms"))
	assert.False(t, chathub.IsReservedID(models.CohortPatient, "42"))
}
