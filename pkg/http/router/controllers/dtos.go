package controllers

import (
	"github.com/bcmobility/roadnet/pkg/engine"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

// eta is in minutes, distance in kilometers
type shortestPathResponse struct {
	Eta  float64 `json:"eta"`
	Path string  `json:"path"`
	Dist float64 `json:"distance"`
}

func NewShortestPathResponse(eta, dist float64, path string) shortestPathResponse {
	return shortestPathResponse{
		Eta:  eta,
		Path: path,
		Dist: dist,
	}
}

type batchQuery struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

type batchRoutesRequest struct {
	Queries []batchQuery `json:"queries" validate:"required,min=1,max=100000,dive"`
}

// eta is in minutes, distance in kilometers; both are null when Ok is false
type batchRouteResult struct {
	Ok   bool     `json:"ok"`
	Eta  *float64 `json:"eta"`
	Dist *float64 `json:"distance"`
}

type batchRoutesResponse struct {
	Results     []batchRouteResult `json:"results"`
	SuccessRate float64            `json:"success_rate"`
}

// NewBatchRoutesResponse keeps one result slot per query. Failed queries keep
// null costs instead of being dropped, so the caller can line results up with
// its own query list by index.
func NewBatchRoutesResponse(results []engine.Result) batchRoutesResponse {
	resp := batchRoutesResponse{Results: make([]batchRouteResult, len(results))}
	succeeded := 0
	for i, r := range results {
		if !r.Ok {
			continue
		}
		eta, dist := r.TravelTimeMin, r.DistanceKM
		resp.Results[i] = batchRouteResult{Ok: true, Eta: &eta, Dist: &dist}
		succeeded++
	}
	if len(results) > 0 {
		resp.SuccessRate = float64(succeeded) / float64(len(results))
	}
	return resp
}

type routeLegResponse struct {
	From      int32   `json:"from"`
	To        int32   `json:"to"`
	Key       int32   `json:"key"`
	RoadClass string  `json:"road_class"`
	Surface   string  `json:"surface"`
	Ferry     bool    `json:"ferry"`
	LengthM   float64 `json:"length_m"`
	Speed     float64 `json:"speed"`
	Eta       float64 `json:"eta"`
}

type routeAuditResponse struct {
	Legs []routeLegResponse `json:"legs"`
	Eta  float64            `json:"eta"`
	Dist float64            `json:"distance"`
}

func NewRouteAuditResponse(audit *engine.RouteAudit) routeAuditResponse {
	resp := routeAuditResponse{
		Legs: make([]routeLegResponse, len(audit.Legs)),
		Eta:  audit.TravelTimeMin,
		Dist: audit.DistanceKM,
	}
	for i, leg := range audit.Legs {
		resp.Legs[i] = routeLegResponse{
			From:      int32(leg.From),
			To:        int32(leg.To),
			Key:       leg.Key,
			RoadClass: leg.RoadClass,
			Surface:   leg.PavSurf,
			Ferry:     leg.Ferry,
			LengthM:   leg.LengthM,
			Speed:     leg.SpeedKPH,
			Eta:       leg.TravelTimeMin,
		}
	}
	return resp
}

type progressEvent struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
