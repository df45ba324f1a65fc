package events

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "authorstore/internal/http/errors"
	"authorstore/internal/session"
)

type Handler struct {
	browsers *session.Registry[*Browser]
	cities   *CityList
	logger   *zap.Logger
}

func NewHandler(browsers *session.Registry[*Browser], cities *CityList, logger *zap.Logger) *Handler {
	return &Handler{browsers: browsers, cities: cities, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.HandleView)
		r.Delete("/filters", h.HandleClearFilters)
		r.Put("/filters/{key}", h.HandleSetFilter)
		r.Delete("/filters/{key}", h.HandleRemoveFilter)
		r.Put("/sort", h.HandleSetSort)
		r.Put("/page", h.HandleSetPage)
		r.Get("/map", h.HandleMap)
		r.Get("/options", h.HandleOptions)
	})
	r.Get("/cities", h.HandleCities)
}

func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	apperrors.JSON(w, http.StatusOK, h.browsers.FromRequest(w, r).View())
}

type filterRequest struct {
	Value string `json:"value"`
	From  Day    `json:"from"`
	To    Day    `json:"to"`
}

func (h *Handler) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	key, err := ParseFilterKey(chi.URLParam(r, "key"))
	if err != nil {
		apperrors.Error(w, http.StatusNotFound, err.Error())
		return
	}
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	b := h.browsers.FromRequest(w, r)
	if key == FilterDateRange {
		b.SetDateRange(DateRange{From: req.From, To: req.To})
	} else if err := b.SetText(key, req.Value); err != nil {
		apperrors.BadRequestError(w, r, err, err.Error())
		return
	}
	apperrors.JSON(w, http.StatusOK, b.View())
}

func (h *Handler) HandleRemoveFilter(w http.ResponseWriter, r *http.Request) {
	key, err := ParseFilterKey(chi.URLParam(r, "key"))
	if err != nil {
		apperrors.Error(w, http.StatusNotFound, err.Error())
		return
	}
	b := h.browsers.FromRequest(w, r)
	if err := b.RemoveFilter(key); err != nil {
		apperrors.BadRequestError(w, r, err, err.Error())
		return
	}
	apperrors.JSON(w, http.StatusOK, b.View())
}

func (h *Handler) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	b := h.browsers.FromRequest(w, r)
	b.ClearFilters()
	apperrors.JSON(w, http.StatusOK, b.View())
}

func (h *Handler) HandleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sort string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}
	order, err := ParseSortOrder(req.Sort)
	if err != nil {
		apperrors.BadRequestError(w, r, err, err.Error())
		return
	}
	b := h.browsers.FromRequest(w, r)
	b.SetSort(order)
	apperrors.JSON(w, http.StatusOK, b.View())
}

func (h *Handler) HandleSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}
	b := h.browsers.FromRequest(w, r)
	b.SetPage(req.Page)
	apperrors.JSON(w, http.StatusOK, b.View())
}

func (h *Handler) HandleMap(w http.ResponseWriter, r *http.Request) {
	b := h.browsers.FromRequest(w, r)
	apperrors.JSON(w, http.StatusOK, map[string]any{
		"center":  MapCenter,
		"markers": Markers(b.Filtered()),
	})
}

type optionsResponse struct {
	Regions      []string             `json:"regions"`
	Cities       []string             `json:"cities"`
	EventTypes   []string             `json:"eventTypes"`
	SortOrders   []SortOrder          `json:"sortOrders"`
	FilterLabels map[FilterKey]string `json:"filterLabels"`
	PageSize     int                  `json:"pageSize"`
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	apperrors.JSON(w, http.StatusOK, optionsResponse{
		Regions:      Regions,
		Cities:       Cities,
		EventTypes:   EventTypes,
		SortOrders:   SortOrders,
		FilterLabels: filterLabels,
		PageSize:     PageSize,
	})
}

func (h *Handler) HandleCities(w http.ResponseWriter, r *http.Request) {
	apperrors.JSON(w, http.StatusOK, h.cities.All())
}

