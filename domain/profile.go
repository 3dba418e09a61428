package domain

import "time"

type Stats struct {
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`
}

// Profile is the persisted identity behind a session name.
type Profile struct {
	Username      string         `json:"username"`
	Friends       []string       `json:"friends"`
	Requests      []string       `json:"requests"`
	Stats         Stats          `json:"stats"`
	Color         string         `json:"color,omitempty"`
	Customization map[string]any `json:"customization,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func NewProfile(username string, now time.Time) Profile {
	return Profile{
		Username:  username,
		Friends:   []string{},
		Requests:  []string{},
		CreatedAt: now,
	}
}
