package fplapi

// Bootstrap is the subset of /bootstrap-static/ the builder reads.
type Bootstrap struct {
	Elements []Element `json:"elements"`
	Events   []Event   `json:"events"`
}

// Element is a player.
type Element struct {
	ID       int    `json:"id"`
	WebName  string `json:"web_name"`
	TeamCode int    `json:"team_code,omitempty"`
}

// Event is a gameweek.
type Event struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
	Finished  bool `json:"finished,omitempty"`
}

// StandingsPage is one page of /leagues-classic/{id}/standings/.
type StandingsPage struct {
	Standings Standings `json:"standings"`
}

// Standings holds a page of league entries.
type Standings struct {
	HasNext bool            `json:"has_next"`
	Page    int             `json:"page"`
	Results []StandingEntry `json:"results"`
}

// StandingEntry is a league participant as listed in the standings.
type StandingEntry struct {
	Entry      int    `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Total      int    `json:"total"`
	Rank       int    `json:"rank,omitempty"`
}

// History is /entry/{id}/history/.
type History struct {
	Current []HistoryEvent `json:"current"`
	Chips   []HistoryChip  `json:"chips"`
}

// HistoryEvent is one gameweek of a manager's season.
type HistoryEvent struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	EventTransfersCost int `json:"event_transfers_cost"`
	TotalPoints        int `json:"total_points,omitempty"`
}

// HistoryChip is a chip activation.
type HistoryChip struct {
	Event int    `json:"event"`
	Name  string `json:"name"`
}

// TransferRecord is one element of /entry/{id}/transfers/.
type TransferRecord struct {
	ElementIn  int `json:"element_in"`
	ElementOut int `json:"element_out"`
	Event      int `json:"event"`
}

// Picks is /entry/{id}/event/{gw}/picks/.
type Picks struct {
	EntryHistory PicksHistory `json:"entry_history"`
	ActiveChip   *string      `json:"active_chip,omitempty"`
}

// PicksHistory carries the authoritative score for one gameweek. Points is
// nil when the upstream omitted it.
type PicksHistory struct {
	Event              int  `json:"event"`
	Points             *int `json:"points"`
	EventTransfersCost int  `json:"event_transfers_cost"`
}
