package models

import "encoding/json"

type RawService struct {
	ID       json.RawMessage `json:"id"`
	Title    LooseText       `json:"title"`
	Summary  LooseText       `json:"summary"`
	Icon     string          `json:"icon"`
	Features []LooseText     `json:"features"`
}

type Service struct {
	ID       string `json:"id"`
	Title    Text   `json:"title"`
	Summary  Text   `json:"summary"`
	Icon     string `json:"icon,omitempty"`
	Features []Text `json:"features,omitempty"`
}

type RawSample struct {
	ID          json.RawMessage `json:"id"`
	Title       LooseText       `json:"title"`
	Description LooseText       `json:"description"`
	Category    LooseText       `json:"category"`
	File        string          `json:"file"`
	Pages       json.RawMessage `json:"pages"`
}

// Sample is a downloadable sample document. File is relative to the
// samples directory and never leaves it.
type Sample struct {
	ID          string `json:"id"`
	Title       Text   `json:"title"`
	Description Text   `json:"description"`
	Category    Text   `json:"category"`
	File        string `json:"-"`
	Pages       int    `json:"pages,omitempty"`
}
