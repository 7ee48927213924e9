package board

import "github.com/okian/leaguetable/internal/domain/types"

// SortState is the header click state: which column was clicked last and
// in which direction it sorted. Clicking another column resets the state.
type SortState struct {
	Key string          `json:"key,omitempty"`
	Dir types.Direction `json:"dir,omitempty"`
}

// Next returns the direction a click on key would sort in.
func (s SortState) Next(key string) types.Direction {
	if s.Key == key && s.Dir != "" {
		return s.Dir.Toggle()
	}
	return types.DefaultDirection
}

// Click applies a header click and returns the new state.
func (s SortState) Click(key string) SortState {
	return SortState{Key: key, Dir: s.Next(key)}
}

// Direction returns the direction of key, or "" when key is not the sorted column.
func (s SortState) Direction(key string) types.Direction {
	if s.Key != key {
		return ""
	}
	return s.Dir
}
