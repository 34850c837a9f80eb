package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/http/middleware"
	"github.com/kesleylibanio/fretesopipa/internal/ledger"
	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/service"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

type Handler struct {
	authSvc     *service.AuthService
	trips       *service.TripService
	rates       *service.RateService
	regs        *service.RegistrationService
	exports     *service.ExportService
	extractions *service.ExtractService
	store       *store.Store
	engine      *syncengine.Engine
	log         zerolog.Logger
}

func NewHandler(
	authSvc *service.AuthService,
	trips *service.TripService,
	rates *service.RateService,
	regs *service.RegistrationService,
	exports *service.ExportService,
	extractions *service.ExtractService,
	st *store.Store,
	engine *syncengine.Engine,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authSvc:     authSvc,
		trips:       trips,
		rates:       rates,
		regs:        regs,
		exports:     exports,
		extractions: extractions,
		store:       st,
		engine:      engine,
		log:         log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.POST("/auth/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/auth/logout", h.logout)
	protected.GET("/db", h.getDB)
	protected.GET("/sync/status", h.syncStatus)

	protected.GET("/trips", h.listTrips)
	protected.POST("/trips", h.createTrip)
	protected.PUT("/trips/:id", h.updateTrip)
	protected.DELETE("/trips/:id", h.deleteTrip)
	protected.POST("/trips/export", h.exportExcel)
	protected.POST("/trips/export/pdf", h.exportPDF)

	protected.GET("/rates", h.listRates)
	protected.POST("/rates", h.addRate)
	protected.DELETE("/rates/:id", h.deleteRate)

	protected.POST("/registrations/:type", h.addRegistration)
	protected.PUT("/registrations/:type/:id", h.updateRegistration)
	protected.DELETE("/registrations/:type/:id", h.deleteRegistration)
	protected.POST("/logins/reset", h.resetLogins)

	protected.POST("/extract", h.extract)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password, req.Passcode)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// logout exists for symmetry; the session token lives client-side and is
// simply discarded.
func (h *Handler) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

type dbResponse struct {
	Customers    []model.Customer    `json:"customers"`
	Drivers      []model.Driver      `json:"drivers"`
	Vehicles     []model.Vehicle     `json:"vehicles"`
	Locations    []model.Location    `json:"locations"`
	Materials    []model.Material    `json:"materials"`
	FreightRates []model.FreightRate `json:"freightRates,omitempty"`
	Trips        []model.Trip        `json:"trips"`
	Logins       []model.Login       `json:"logins,omitempty"`
	RecentIDs    map[string][]string `json:"recentIds"`
}

// getDB returns the session's working snapshot. Drivers get the reference
// collections plus their own trips with money fields blanked; the rate table
// and login records stay admin-only.
func (h *Handler) getDB(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	snap := h.store.View()
	resp := dbResponse{
		Customers: snap.Customers,
		Drivers:   snap.Drivers,
		Vehicles:  snap.Vehicles,
		Locations: snap.Locations,
		Materials: snap.Materials,
		Trips:     h.trips.List(principal),
		RecentIDs: snap.RecentIDs,
	}
	if principal.IsAdmin() {
		resp.FreightRates = snap.FreightRates
		resp.Logins = snap.Logins
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}

func (h *Handler) listTrips(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": h.trips.List(principal)})
}

func (h *Handler) createTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var input service.TripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.Create(principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) updateTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var input service.TripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.Update(principal, c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) deleteTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if err := h.trips.Delete(principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listRates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	rates, err := h.rates.List(principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"freightRates": rates})
}

func (h *Handler) addRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var input service.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.rates.Add(principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) deleteRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if err := h.rates.Delete(principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addRegistration(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var input service.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.regs.Add(principal, c.Param("type"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) updateRegistration(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var input service.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.regs.Update(principal, c.Param("type"), c.Param("id"), input); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteRegistration(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if err := h.regs.Delete(principal, c.Param("type"), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) resetLogins(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if err := h.regs.ResetLogins(principal); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type extractRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

// extract runs the invoice photo through the AI collaborator and returns
// candidates only; the client applies them after explicit confirmation.
func (h *Handler) extract(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Image))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be base64"})
		return
	}

	result, err := h.extractions.FromImage(c.Request.Context(), image, req.MimeType)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type exportRequest struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) exportExcel(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.exports.Excel(principal, service.ExportInput{PeriodStart: req.PeriodStart, PeriodEnd: req.PeriodEnd})
	if err != nil {
		h.handleError(c, err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) exportPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.exports.PDF(principal, service.ExportInput{PeriodStart: req.PeriodStart, PeriodEnd: req.PeriodEnd})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		// One uniform message; which factor failed is not disclosed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, ledger.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLoadFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load remote data"})
	case errors.Is(err, service.ErrExtractAuth):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "needsKey": true})
	case errors.Is(err, service.ErrExtractFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
