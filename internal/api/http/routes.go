package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// Options configures the dashboard routes.
type Options struct {
	// Locations are the tracked locations; the first is the default.
	Locations      []weather.Location
	RefreshTimeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, opts Options) {
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 30 * time.Second
	}
	h := &handlers{service: service, opts: opts}

	v1 := app.Group("/api/v1")
	v1.Get("/dashboard", h.dashboard)
	v1.Get("/chart.svg", h.chartSVG)
	v1.Post("/refresh", h.refresh)
	v1.Get("/status", h.status)
	v1.Get("/revisions", h.revisions)
}

type handlers struct {
	service *weather.Service
	opts    Options
}

func (h *handlers) dashboard(c *fiber.Ctx) error {
	loc, st, err := h.parseView(c)
	if err != nil {
		return err
	}
	ds, err := h.latest(loc)
	if err != nil {
		return err
	}
	return c.JSON(chart.Render(ds, st))
}

func (h *handlers) chartSVG(c *fiber.Ctx) error {
	loc, st, err := h.parseView(c)
	if err != nil {
		return err
	}
	ds, err := h.latest(loc)
	if err != nil {
		return err
	}

	geom := chart.Sparkline(chart.ActiveSeries(ds, st), chart.DefaultDims)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(chart.RenderSVG(geom, chart.DefaultDims))
}

func (h *handlers) refresh(c *fiber.Ctx) error {
	loc, err := h.lookup(c.Query("location"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.opts.RefreshTimeout)
	defer cancel()

	if _, err := h.service.Refresh(ctx, loc); err != nil {
		if errors.Is(err, store.ErrStale) {
			return fiber.NewError(fiber.StatusConflict, "a newer refresh already committed")
		}
		return c.Status(fiber.StatusBadGateway).JSON(h.service.Status(loc))
	}
	return c.JSON(h.service.Status(loc))
}

func (h *handlers) status(c *fiber.Ctx) error {
	loc, err := h.lookup(c.Query("location"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"location": loc.Name,
		"strategy": h.service.StrategyName(),
		"status":   h.service.Status(loc),
	})
}

func (h *handlers) revisions(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := h.lookup(req.Location)
	if err != nil {
		return err
	}
	datasets, err := h.service.GetRange(loc, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no dashboard revisions for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch dashboard revisions")
	}

	revisions := make([]revision, len(datasets))
	for i, ds := range datasets {
		revisions[i] = revision{
			ID:        ds.ID,
			Strategy:  ds.Strategy,
			StartedAt: ds.StartedAt,
			FetchedAt: ds.FetchedAt,
			Warnings:  len(ds.Warnings),
		}
	}

	return c.JSON(fiber.Map{
		"location":  loc.Name,
		"from":      req.From,
		"to":        req.To,
		"revisions": revisions,
	})
}

type revision struct {
	ID        string    `json:"id"`
	Strategy  string    `json:"strategy"`
	StartedAt time.Time `json:"startedAt"`
	FetchedAt time.Time `json:"fetchedAt"`
	Warnings  int       `json:"warnings"`
}

// viewQuery holds query parameters of the dashboard and chart endpoints.
type viewQuery struct {
	Location string
	Unit     string `validate:"omitempty,oneof=C F"`
	Tab      string `validate:"omitempty,oneof=temp precip wind"`
}

func (h *handlers) parseView(c *fiber.Ctx) (weather.Location, chart.DisplayState, error) {
	q := viewQuery{
		Location: c.Query("location"),
		Unit:     strings.ToUpper(c.Query("unit")),
		Tab:      c.Query("tab"),
	}
	if err := validate.Struct(q); err != nil {
		return weather.Location{}, chart.DisplayState{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := h.lookup(q.Location)
	if err != nil {
		return weather.Location{}, chart.DisplayState{}, err
	}

	// Both parse cleanly once the validator has accepted the query.
	unit, _ := chart.ParseUnit(q.Unit)
	tab, _ := chart.ParseTab(q.Tab)
	return loc, chart.DefaultDisplayState().WithUnit(unit).WithTab(tab), nil
}

// lookup resolves a location name against the tracked locations.
// An empty name selects the default location.
func (h *handlers) lookup(name string) (weather.Location, error) {
	if len(h.opts.Locations) == 0 {
		return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "no locations configured")
	}
	if strings.TrimSpace(name) == "" {
		return h.opts.Locations[0], nil
	}
	key := weather.Location{Name: name}.Key()
	for _, loc := range h.opts.Locations {
		if loc.Key() == key {
			return loc, nil
		}
	}
	return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "unknown location "+strconv.Quote(name))
}

func (h *handlers) latest(loc weather.Location) (weather.Dataset, error) {
	ds, err := h.service.GetLatest(loc)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return weather.Dataset{}, fiber.NewError(fiber.StatusNotFound, "no dashboard data for requested location yet")
		}
		return weather.Dataset{}, fiber.NewError(fiber.StatusInternalServerError, "failed to load dashboard data")
	}
	return ds, nil
}

// historyQuery holds query parameters for the revisions endpoint.
type historyQuery struct {
	Location string
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = c.Query("location")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
