package models

import "time"

type Prize struct {
	Position string  `json:"position"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Hackathon struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Tagline      string    `json:"tagline,omitempty"`
	Theme        string    `json:"theme,omitempty"`
	Mode         string    `json:"mode"`
	Location     string    `json:"location,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Tracks       []string  `json:"tracks,omitempty"`
	Prizes       []Prize   `json:"prizes,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}
