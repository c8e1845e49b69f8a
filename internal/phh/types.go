// Package phh exports settled hands in the Poker Hand History (PHH) format.
package phh

// HandHistory is a single hand in PHH form. Seats are numbered from the
// small blind, so p1 posts the small blind and p2 the big blind.
type HandHistory struct {
	Variant           string   `toml:"variant"`
	Table             string   `toml:"table,omitempty"`
	SeatCount         int      `toml:"seat_count,omitempty"`
	Seats             []int    `toml:"seats,omitempty"`
	Antes             []uint   `toml:"antes"`
	BlindsOrStraddles []uint   `toml:"blinds_or_straddles"`
	MinBet            uint     `toml:"min_bet"`
	StartingStacks    []uint   `toml:"starting_stacks"`
	FinishingStacks   []uint   `toml:"finishing_stacks,omitempty"`
	Winnings          []uint   `toml:"winnings,omitempty"`
	Actions           []string `toml:"actions"`
	Players           []string `toml:"players,omitempty"`
	HandID            string   `toml:"hand"`
	Time              string   `toml:"time,omitempty"`
	TimeZone          string   `toml:"time_zone,omitempty"`
	Day               int      `toml:"day,omitempty"`
	Month             int      `toml:"month,omitempty"`
	Year              int      `toml:"year,omitempty"`
}
