package domain

// ArenaStats is a point-in-time view of the loop-owned state.
type ArenaStats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Sessions    int `json:"sessions"`
	Connections int `json:"connections"`
}

// ProcessStats describes the resources used by the server process.
type ProcessStats struct {
	PID        int32
	Status     string
	CPUPercent float64
	RSSBytes   uint64
}
