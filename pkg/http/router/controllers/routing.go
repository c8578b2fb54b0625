package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bcmobility/roadnet/pkg/geo"
	helper "github.com/bcmobility/roadnet/pkg/http/router/routerhelper"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	hub            *Hub
	log            *zap.Logger
}

func New(routingService RoutingService, hub *Hub, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		hub:            hub,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoute", api.shortestPath)
	group.POST("/batchRoutes", api.batchRoutes)
	group.GET("/auditRoute", api.auditRoute)
}

func (api *routingAPI) parseCoordinateQuery(w http.ResponseWriter, r *http.Request) (shortestPathRequest, bool) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return request, false
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return request, false
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return request, false
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return request, false
	}

	if !api.validateRequest(w, r, request) {
		return request, false
	}
	return request, true
}

func (api *routingAPI) validateRequest(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}

func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.parseCoordinateQuery(w, r)
	if !ok {
		return
	}

	travelTime, dist, pathPolyline, _, err := api.routingService.ShortestPath(request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(travelTime, dist, pathPolyline)},
		headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) batchRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request batchRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if !api.validateRequest(w, r, request) {
		return
	}

	origins := make([]geo.Coordinate, len(request.Queries))
	destinations := make([]geo.Coordinate, len(request.Queries))
	for i, q := range request.Queries {
		origins[i] = geo.NewCoordinate(q.OriginLat, q.OriginLon)
		destinations[i] = geo.NewCoordinate(q.DestinationLat, q.DestinationLon)
	}

	results, err := api.routingService.BatchShortestPaths(r.Context(), origins, destinations,
		func(completed, total int) {
			api.hub.BroadcastProgress(completed, total)
		})
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewBatchRoutesResponse(results)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) auditRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.parseCoordinateQuery(w, r)
	if !ok {
		return
	}

	audit, err := api.routingService.AuditRoute(request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteAuditResponse(audit)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
