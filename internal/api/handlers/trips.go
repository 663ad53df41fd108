package handlers

import (
	"log"
	"net/http"
	"strings"
	"trip-ingestion-service/internal/api/dto"
	"trip-ingestion-service/internal/ports"
)

// TripHandler exposes the read-only trip aggregations.
type TripHandler struct {
	Queries ports.TripQuerier
}

func (h *TripHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	groups, err := h.Queries.GroupedTrips(r.Context())
	if err != nil {
		log.Printf("grouped trips failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.GroupedTripsResponse{
		Groups: make([]dto.TripGroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		res.Groups = append(res.Groups, dto.TripGroupResponse{
			Region:           g.Region,
			TimeOfDay:        string(g.TimeOfDay),
			OriginPoint:      g.Origin,
			DestinationPoint: g.Destination,
			TotalTrips:       g.TotalTrips,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// WeeklyAverage returns trip counts per week for ?region=. Despite the route name
// these are counts, not averages.
func (h *TripHandler) WeeklyAverage(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		writeError(w, r, http.StatusBadRequest, "region is required")
		return
	}

	counts, err := h.Queries.WeeklyTripCounts(r.Context(), region)
	if err != nil {
		log.Printf("weekly trip counts failed: region=%q err=%v", region, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.WeeklyTripsResponse{
		Region:        region,
		WeeklyAverage: make([]dto.WeeklyCountResponse, 0, len(counts)),
	}
	for _, c := range counts {
		res.WeeklyAverage = append(res.WeeklyAverage, dto.WeeklyCountResponse{
			Week:  c.Week,
			Trips: c.Trips,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
