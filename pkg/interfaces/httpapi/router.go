package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Sessions       *SessionStore
	Booking        *services.BookingHandoff
	AllowedOrigins []string
	Logger         *logging.Logger
}

type selectionRequest struct {
	Value string `json:"value"`
}

// NewRouter builds the configurator API
func NewRouter(cfg RouterConfig) *gin.Engine {
	h := &handler{RouterConfig: cfg, logger: logging.OrNop(cfg.Logger)}

	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": cfg.Sessions.Len()})
	})

	api := router.Group("/api/sessions")
	{
		api.POST("", h.createSession)
		api.GET("/:id", h.getState)
		api.DELETE("/:id", h.deleteSession)
		api.PUT("/:id/selections/:field", h.applySelection)
		api.DELETE("/:id/selections/:field", h.clearSelection)
		api.POST("/:id/reset", h.reset)
		api.GET("/:id/quote", h.getQuote)
		api.GET("/:id/booking", h.getBooking)
		api.GET("/:id/events", h.getEvents)
	}

	return router
}

type handler struct {
	RouterConfig
	logger *logging.Logger
}

func (h *handler) createSession(c *gin.Context) {
	configurator, err := h.Sessions.Create()
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, configurator.State())
}

func (h *handler) getState(c *gin.Context) {
	h.withSession(c, func(configurator *services.Configurator) {
		c.JSON(http.StatusOK, configurator.State())
	})
}

func (h *handler) deleteSession(c *gin.Context) {
	if !h.Sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrSessionNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) applySelection(c *gin.Context) {
	field, ok := parseField(c)
	if !ok {
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.withSession(c, func(configurator *services.Configurator) {
		result, err := configurator.ApplySelection(field, req.Value)

		view := dto.SelectionView{
			Accepted: result.Accepted,
			Field:    field.String(),
			Value:    req.Value,
		}
		for _, f := range result.Cleared {
			view.Cleared = append(view.Cleared, f.String())
		}

		status := http.StatusOK
		if err != nil {
			view.Error = err.Error()
			status = http.StatusConflict
		}
		view.State = configurator.State()
		c.JSON(status, view)
	})
}

func (h *handler) clearSelection(c *gin.Context) {
	field, ok := parseField(c)
	if !ok {
		return
	}
	h.withSession(c, func(configurator *services.Configurator) {
		configurator.Clear(field)
		c.JSON(http.StatusOK, configurator.State())
	})
}

func (h *handler) reset(c *gin.Context) {
	h.withSession(c, func(configurator *services.Configurator) {
		configurator.Reset()
		c.JSON(http.StatusOK, configurator.State())
	})
}

func (h *handler) getQuote(c *gin.Context) {
	h.withSession(c, func(configurator *services.Configurator) {
		quote, err := configurator.ResolvePrice()
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, configurator.QuoteView(quote))
	})
}

func (h *handler) getBooking(c *gin.Context) {
	if h.Booking == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "booking not configured"})
		return
	}
	h.withSession(c, func(configurator *services.Configurator) {
		bookingURL, err := configurator.PrepareBooking(h.Booking)
		switch {
		case errors.Is(err, entities.ErrIncompleteSelections), errors.Is(err, services.ErrQuoteNotBookable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			h.logger.Error("failed to prepare booking", "session", configurator.ID(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare booking"})
		default:
			c.JSON(http.StatusOK, gin.H{"url": bookingURL})
		}
	})
}

func (h *handler) getEvents(c *gin.Context) {
	h.withSession(c, func(configurator *services.Configurator) {
		recorded, err := configurator.Events().ReadEvents(configurator.ID(), 1)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(recorded))
		for _, e := range recorded {
			out = append(out, gin.H{
				"id":      e.ID(),
				"type":    e.Type(),
				"version": e.Version(),
				"time":    e.Timestamp(),
				"data":    e.Data(),
			})
		}
		c.JSON(http.StatusOK, out)
	})
}

func (h *handler) withSession(c *gin.Context, fn func(*services.Configurator)) {
	err := h.Sessions.With(c.Param("id"), func(configurator *services.Configurator) error {
		fn(configurator)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	}
}

func parseField(c *gin.Context) (entities.Field, bool) {
	field, err := entities.ParseField(c.Param("field"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return field, true
}
