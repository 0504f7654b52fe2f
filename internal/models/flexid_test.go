package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"hospitalchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.FlexID
		wantErr bool
	}{
		{name: "string", input: `"patient-001"`, want: models.FlexID{Value: "patient-001", Set: true}},
		{name: "integer", input: `42`, want: models.FlexID{Value: "42", Set: true}},
		{name: "empty string is set", input: `""`, want: models.FlexID{Value: "", Set: true}},
		{name: "null", input: `null`, want: models.FlexID{}},
		{name: "object", input: `{"id":1}`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
		{name: "array", input: `["1"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseFlexID(json.RawMessage(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexID_InsideRequest(t *testing.T) {
	var req models.StaffToPatientRequest
	err := json.Unmarshal([]byte(`{"patientId": 7, "message": "hi"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "7", req.PatientID.Value)
	assert.False(t, req.StaffID.Set, "missing field stays unset")

	err = json.Unmarshal([]byte(`{"patientId": {"nested": true}, "message": "hi"}`), &req)
	assert.Error(t, err)
}

func TestTimestamp_IsUTCWithMillis(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2026, 3, 4, 12, 30, 15, 250_000_000, loc)
	assert.Equal(t, "2026-03-04T10:30:15.250Z", models.Timestamp(ts))
}

func TestCohortRooms(t *testing.T) {
	assert.Equal(t, "staff-42", models.CohortStaff.PersonalRoom("42"))
	assert.Equal(t, "patient-room", models.CohortPatient.Room())
	assert.Equal(t, "patient-", models.CohortPatient.Prefix())
	assert.True(t, models.CohortStaff.Valid())
	assert.False(t, models.Cohort("doctor").Valid())
}
