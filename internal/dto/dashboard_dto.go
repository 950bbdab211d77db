package dto

// DashboardEntryDTO pairs a roster user with their latest progress slot, or
// null when the user has nothing in flight (including the case where their
// lookup failed and was degraded).
type DashboardEntryDTO struct {
	User     UserResponseDTO      `json:"user"`
	Progress *ProgressResponseDTO `json:"progress"`
}

type DashboardResponseDTO struct {
	Entries []DashboardEntryDTO `json:"entries"`
}
