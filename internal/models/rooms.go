package models

// Cohort groups participants of one side of the conversation.
type Cohort string

const (
	CohortStaff   Cohort = "staff"
	CohortPatient Cohort = "patient"
)

// Prefix is the personal room prefix, e.g. "staff-".
func (c Cohort) Prefix() string { return string(c) + "-" }

// PersonalRoom returns the room name for one participant id.
func (c Cohort) PersonalRoom(id string) string { return c.Prefix() + id }

// Room returns the shared cohort room, e.g. "staff-room".
func (c Cohort) Room() string { return string(c) + "-room" }

func (c Cohort) Valid() bool { return c == CohortStaff || c == CohortPatient }

// RoomInfo describes one live room for diagnostics.
type RoomInfo struct {
	Name    string `json:"name"`
	Clients int    `json:"clients"`
}
