package domain

import "time"

// Count of trips sharing region, period and route.
// Origin and Destination are the WKT text rendered by the store.
type TripGroup struct {
	Region      string
	TimeOfDay   TimeOfDay
	Origin      string
	Destination string
	TotalTrips  int
}

// Number of trips in the week starting at Week.
type WeeklyCount struct {
	Week  time.Time
	Trips int
}
