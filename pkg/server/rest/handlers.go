package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"lintang/trafficsim/pkg/engine/routingalgorithm"
	"lintang/trafficsim/pkg/server"
	"lintang/trafficsim/pkg/server/rest/service"
)

type SimulationService interface {
	Network(ctx context.Context) service.NetworkView
	Route(ctx context.Context, from, to, strategy string) (service.RouteResult, error)
	RouteCar(ctx context.Context, carID int32) (service.RouteResult, error)
	WalkCar(ctx context.Context, carID int32, maxHops int) (service.RouteResult, error)
	ReleaseRoad(ctx context.Context, roadID int32) (service.RoadView, error)
	SnapToIntersection(ctx context.Context, lat, lon float64) (service.SnapResult, error)
}

type SimulationHandler struct {
	svc     SimulationService
	metrics *Metrics
}

func SimulationRouter(r *chi.Mux, svc SimulationService, m *Metrics) {
	handler := &SimulationHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Get("/network", handler.Network)
			r.Get("/routes", handler.Route)
			r.Get("/snap", handler.Snap)
			r.Post("/cars/{id}/route", handler.RouteCar)
			r.Post("/cars/{id}/walk", handler.WalkCar)
			r.Post("/roads/{id}/release", handler.ReleaseRoad)
		})
	})
}

type (
	IntersectionResponse = service.IntersectionView
	RoadResponse         = service.RoadView
	CarResponse          = service.CarView
	NetworkResponse      = service.NetworkView
	RouteResponse        = service.RouteResult
	SnapResponse         = service.SnapResult
)

func (h *SimulationHandler) Network(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.Network(r.Context()))
}

type RouteRequest struct {
	From     string `validate:"required"`
	To       string `validate:"required"`
	Strategy string `validate:"required,oneof=shortest cheapest fastest highest-speed-limit fewest-intersections"`
}

// Route computes a path without committing any traffic.
func (h *SimulationHandler) Route(w http.ResponseWriter, r *http.Request) {
	data := RouteRequest{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		Strategy: r.URL.Query().Get("strategy"),
	}
	if data.Strategy == "" {
		data.Strategy = routingalgorithm.Shortest.String()
	}
	if !h.validate(w, r, data) {
		return
	}

	res, err := h.svc.Route(r.Context(), data.From, data.To, data.Strategy)
	h.metrics.observeRoute(data.Strategy, err)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

func (h *SimulationHandler) RouteCar(w http.ResponseWriter, r *http.Request) {
	carID, err := idParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	res, err := h.svc.RouteCar(r.Context(), carID)
	h.metrics.observeRoute("car", err)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}
	h.metrics.observeRoads(res.Roads...)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

type WalkRequest struct {
	MaxHops int `json:"max_hops" validate:"gte=0,lte=100000"`
}

func (s *WalkRequest) Bind(r *http.Request) error {
	return nil
}

func (h *SimulationHandler) WalkCar(w http.ResponseWriter, r *http.Request) {
	carID, err := idParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	data := &WalkRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validate(w, r, *data) {
		return
	}

	res, err := h.svc.WalkCar(r.Context(), carID, data.MaxHops)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}
	h.metrics.observeRoads(res.Roads...)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

func (h *SimulationHandler) ReleaseRoad(w http.ResponseWriter, r *http.Request) {
	roadID, err := idParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	road, err := h.svc.ReleaseRoad(r.Context(), roadID)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}
	h.metrics.observeRoads(road)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, road)
}

type SnapRequest struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (h *SimulationHandler) Snap(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err := errors.Join(errLat, errLon); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	data := SnapRequest{Lat: lat, Lon: lon}
	if !h.validate(w, r, data) {
		return
	}

	res, err := h.svc.SnapToIntersection(r.Context(), data.Lat, data.Lon)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

func idParam(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return int32(id), nil
}

// validate renders the translated validation errors and reports whether data is valid.
func (h *SimulationHandler) validate(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

// ErrServiceRend maps a service error code to a status. internal errors never leak their cause.
func ErrServiceRend(err error) render.Renderer {
	var serr *server.Error
	if !errors.As(err, &serr) {
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}

	resp := &ErrResponse{
		Err:       err,
		AppCode:   int64(serr.Code()),
		ErrorText: serr.Message(),
	}
	switch serr.Code() {
	case server.ErrNotFound:
		resp.HTTPStatusCode, resp.StatusText = http.StatusNotFound, "Resource not found."
	case server.ErrBadParamInput:
		resp.HTTPStatusCode, resp.StatusText = http.StatusBadRequest, "Invalid request."
	case server.ErrConflict:
		resp.HTTPStatusCode, resp.StatusText = http.StatusConflict, "Conflict."
	default:
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}
	return resp
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
