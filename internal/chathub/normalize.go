package chathub

import (
	"strings"

	"hospitalchat/backend/internal/models"
)

// NormalizeID trims whitespace and one leading cohort prefix,
// so "001", "patient-001" and " patient-001 " all become "001".
func NormalizeID(cohort models.Cohort, raw string) string {
	id := strings.TrimSpace(raw)
	id = strings.TrimPrefix(id, cohort.Prefix())
	return strings.TrimSpace(id)
}

// IsReservedID reports whether id would address the shared cohort room ("room" -> "staff-room")
// instead of a personal room.
func IsReservedID(cohort models.Cohort, id string) bool {
	return cohort.PersonalRoom(id) == cohort.Room()
}
