package dto

import "time"

type TripGroupResponse struct {
	Region           string `json:"region"`
	TimeOfDay        string `json:"time_of_day"`
	OriginPoint      string `json:"origin_point"`
	DestinationPoint string `json:"destination_point"`
	TotalTrips       int    `json:"total_trips"`
}

type GroupedTripsResponse struct {
	Groups []TripGroupResponse `json:"groups"`
}

type WeeklyCountResponse struct {
	Week  time.Time `json:"week"`
	Trips int       `json:"trips"`
}

// The weekly_average field carries per-week counts; the name is kept for client compatibility.
type WeeklyTripsResponse struct {
	Region        string                `json:"region"`
	WeeklyAverage []WeeklyCountResponse `json:"weekly_average"`
}
