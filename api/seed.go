package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/gin-gonic/gin"
)

type SeedHandler struct {
	service seeding.SeedUseCase
}

func NewSeedHandler(service seeding.SeedUseCase) *SeedHandler {
	return &SeedHandler{service: service}
}

func (h *SeedHandler) Register(router *gin.RouterGroup) {
	router.GET("/fixtures", h.fixtures)
	router.GET("/plan", h.plan)
	router.POST("/runs", h.run)
	router.GET("/verify", h.verify)
}

// RegisterHealth mounts the liveness probe.
func RegisterHealth(router gin.IRoutes) {
	router.GET("/manage/health", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
}

func (h *SeedHandler) fixtures(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Fixtures())
}

func (h *SeedHandler) plan(c *gin.Context) {
	plan, err := h.service.Plan()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan.Describe())
}

func (h *SeedHandler) run(c *gin.Context) {
	report, err := h.service.Run(c.Request.Context())
	if errors.Is(err, seeding.ErrSeedInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *SeedHandler) verify(c *gin.Context) {
	report, err := h.service.Verify(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !report.OK {
		c.JSON(http.StatusConflict, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
