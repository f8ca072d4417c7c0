package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/engine/heuristics"
	"github.com/fieldcanvas/territoryx/pkg/kv"
	"github.com/fieldcanvas/territoryx/pkg/route"
	"github.com/fieldcanvas/territoryx/pkg/server"
	"github.com/fieldcanvas/territoryx/pkg/territory"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (string,
		[]datastructure.Coordinate, float64, float64, error)
	OptimizeRoute(ctx context.Context, stops []heuristics.Stop, departAt time.Time) (string, *route.OptimizedRoute, error)
	Territory(ctx context.Context, coords []datastructure.Coordinate, method territory.Method) ([]datastructure.Coordinate, float64, error)
	GetRoute(ctx context.Context, id string) (*route.OptimizedRoute, error)
	ListRoutes(ctx context.Context) ([]kv.StoredRoute, error)
	DeleteRoute(ctx context.Context, id string) error
}

type NavigationHandler struct {
	svc NavigationService
}

func NavigationRouter(r *chi.Mux, svc NavigationService) {
	handler := &NavigationHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigation", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/optimize-route", handler.OptimizeRoute)
		})
		r.Route("/api/territory", func(r chi.Router) {
			r.Post("/polygon", handler.Territory)
		})
		r.Route("/api/routes", func(r chi.Router) {
			r.Get("/", handler.ListRoutes)
			r.Get("/{routeID}", handler.GetRoute)
			r.Delete("/{routeID}", handler.DeleteRoute)
		})
	})
}

type Coord struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

type ShortestPathRequest struct {
	SrcLat float64 `json:"src_lat" validate:"required,lt=90,gt=-90"`
	SrcLon float64 `json:"src_lon" validate:"required,lt=180,gt=-180"`
	DstLat float64 `json:"dst_lat" validate:"required,lt=90,gt=-90"`
	DstLon float64 `json:"dst_lon" validate:"required,lt=180,gt=-180"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	if s.SrcLat == 0 && s.SrcLon == 0 && s.DstLat == 0 && s.DstLon == 0 {
		return errors.New("invalid request")
	}
	return nil
}

type ShortestPathResponse struct {
	Path     string  `json:"path"`
	Coords   []Coord `json:"coordinates"`
	Distance float64 `json:"distance"` // meters
	Eta      float64 `json:"eta"`      // seconds
}

func RenderShortestPathResponse(p string, points []datastructure.Coordinate, dist, eta float64) *ShortestPathResponse {
	coords := make([]Coord, 0, len(points))
	for _, c := range points {
		coords = append(coords, Coord{Lat: c.Lat, Lon: c.Lon})
	}
	return &ShortestPathResponse{
		Path:     p,
		Coords:   coords,
		Distance: dist,
		Eta:      eta,
	}
}

func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	p, points, dist, eta, err := h.svc.ShortestPath(r.Context(), data.SrcLat, data.SrcLon, data.DstLat, data.DstLon)
	if err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderShortestPathResponse(p, points, dist, eta))
}

type StopRequest struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon     float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

type OptimizeRouteRequest struct {
	Stops    []StopRequest `json:"stops" validate:"required,dive"`
	DepartAt *time.Time    `json:"depart_at"`
}

func (s *OptimizeRouteRequest) Bind(r *http.Request) error {
	if len(s.Stops) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

type OptimizeRouteResponse struct {
	ID    string                `json:"id"`
	Route *route.OptimizedRoute `json:"route"`
}

func (h *NavigationHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	data := &OptimizeRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	stops := make([]heuristics.Stop, 0, len(data.Stops))
	for _, s := range data.Stops {
		stops = append(stops, heuristics.NewStop(s.Address, s.Lat, s.Lon))
	}
	departAt := time.Now()
	if data.DepartAt != nil {
		departAt = *data.DepartAt
	}

	id, optimized, err := h.svc.OptimizeRoute(r.Context(), stops, departAt)
	if err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &OptimizeRouteResponse{ID: id, Route: optimized})
}

type TerritoryRequest struct {
	Coordinates []Coord `json:"coordinates" validate:"required,dive"`
	Method      string  `json:"method" validate:"omitempty,oneof=bounding_box convex_hull"`
}

func (s *TerritoryRequest) Bind(r *http.Request) error {
	if len(s.Coordinates) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

type TerritoryResponse struct {
	Polygon     []Coord `json:"polygon"`
	AreaSqMeter float64 `json:"area_sq_meter"`
}

func (h *NavigationHandler) Territory(w http.ResponseWriter, r *http.Request) {
	data := &TerritoryRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	coords := make([]datastructure.Coordinate, 0, len(data.Coordinates))
	for _, c := range data.Coordinates {
		coords = append(coords, datastructure.Coordinate{Lat: c.Lat, Lon: c.Lon})
	}

	ring, area, err := h.svc.Territory(r.Context(), coords, territory.Method(data.Method))
	if err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	polygon := make([]Coord, 0, len(ring))
	for _, c := range ring {
		polygon = append(polygon, Coord{Lat: c.Lat, Lon: c.Lon})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TerritoryResponse{Polygon: polygon, AreaSqMeter: area})
}

type StoredRouteResponse struct {
	ID    string                `json:"id"`
	Route *route.OptimizedRoute `json:"route"`
}

func (h *NavigationHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeID")

	stored, err := h.svc.GetRoute(r.Context(), routeID)
	if err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StoredRouteResponse{ID: routeID, Route: stored})
}

func (h *NavigationHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.svc.ListRoutes(r.Context())
	if err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	resp := make([]StoredRouteResponse, 0, len(routes))
	for _, stored := range routes {
		resp = append(resp, StoredRouteResponse{ID: stored.ID, Route: stored.Route})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *NavigationHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeID")

	if err := h.svc.DeleteRoute(r.Context(), routeID); err != nil {
		render.Render(w, r, ErrChain(err))
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
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
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
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

// ErrChain maps an application error code to the matching http status.
func ErrChain(err error) render.Renderer {
	var appErr *server.Error
	if !errors.As(err, &appErr) {
		return ErrInternalServerErrorRend(err)
	}

	switch appErr.Code() {
	case server.ErrNotFound:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: 404,
			StatusText:     "Resource not found.",
			ErrorText:      err.Error(),
		}
	case server.ErrUnreachable:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: 422,
			StatusText:     "Unprocessable request.",
			ErrorText:      err.Error(),
		}
	case server.ErrBadParamInput:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: 400,
			StatusText:     "Invalid request.",
			ErrorText:      err.Error(),
		}
	default:
		return ErrInternalServerErrorRend(err)
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
