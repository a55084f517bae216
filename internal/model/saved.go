package model

import "time"

// SavedEntry is one bookmarked tool.
//
// ToolID is a weak reference: the tool may have been deleted since it was
// saved. Consumers drop such entries silently when materializing a view.
type SavedEntry struct {
	ToolID  string    `json:"toolId"`
	SavedAt time.Time `json:"savedAt"`
}
