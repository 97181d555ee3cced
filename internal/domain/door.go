package domain

// GlobalConfigID keys the singleton door configuration record.
const GlobalConfigID = "GLOBAL"

// TimeRange is one inclusive [From, To] open window in zero-padded 24h
// "HH:MM" form. Lexicographic comparison of the strings equals chronological
// comparison. Ranges with From > To (overnight) are never satisfied; wrapping
// past midnight is an explicit non-feature of the schedule format.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Schedule maps a lowercase three-letter weekday key ("sun".."sat") to its
// ordered open windows. A weekday absent from the map is closed all day.
type Schedule map[string][]TimeRange

// DoorConfig is the singleton access policy.
type DoorConfig struct {
	ID       string   `json:"id"`
	TimeZone string   `json:"time_zone"`
	Schedule Schedule `json:"schedule"`
}
