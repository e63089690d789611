package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/partner-contracts/internal/http/middleware"
	"github.com/nurpe/partner-contracts/internal/model"
	"github.com/nurpe/partner-contracts/internal/revenue"
	"github.com/nurpe/partner-contracts/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	revenue   *revenue.Engine
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, engine *revenue.Engine, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, revenue: engine, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/contracts")
	protected.Use(authMiddleware)
	protected.GET("/expiring", h.listExpiring)
	protected.GET("/:id", h.getContract)
	protected.PUT("/:id/status", h.changeStatus)
	protected.PUT("/:id/renewal/status", h.setRenewalSubStatus)
	protected.POST("/:id/renewal/complete", h.completeRenewal)
	protected.GET("/:id/revenue", h.calculateRevenue)
}

func (h *Handler) listExpiring(c *gin.Context) {
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	contracts, err := h.contracts.ListExpiring(c.Request.Context(), days)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contracts})
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	details, err := h.contracts.GetContractWithLatestRenewal(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}

type changeStatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment"`
}

func (h *Handler) changeStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, valid := model.ParseContractStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	result, err := h.contracts.ChangeStatus(c.Request.Context(), service.ChangeStatusInput{
		ContractID: id,
		Status:     status,
		Comment:    req.Comment,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	body := gin.H{
		"message":  result.Message,
		"contract": result.Contract,
	}
	if result.Renewal != nil {
		body["renewal"] = result.Renewal
	}
	if result.RenewalWarning != nil {
		body["warning"] = "status changed but the renewal record could not be created"
	}
	c.JSON(http.StatusOK, body)
}

type setSubStatusRequest struct {
	SubStatus string  `json:"sub_status" binding:"required"`
	Comment   *string `json:"comment"`
}

func (h *Handler) setRenewalSubStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	var req setSubStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, valid := model.ParseRenewalSubStatus(req.SubStatus)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sub_status"})
		return
	}

	result, err := h.contracts.SetRenewalSubStatus(c.Request.Context(), service.SetSubStatusInput{
		ContractID: id,
		SubStatus:  sub,
		Comment:    req.Comment,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message, "renewal": result.Renewal})
}

type completeRenewalRequest struct {
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	RevenuePercentage *decimal.Decimal `json:"revenue_percentage"`
	Comment           *string          `json:"comment"`
}

func (h *Handler) completeRenewal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	var req completeRenewalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	overrides := service.RenewalOverrides{RevenuePercentage: req.RevenuePercentage}
	if strings.TrimSpace(req.StartDate) != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		overrides.StartDate = &start
	}
	if strings.TrimSpace(req.EndDate) != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		overrides.EndDate = &end
	}

	result, err := h.contracts.CompleteRenewal(c.Request.Context(), service.CompleteRenewalInput{
		ContractID: id,
		Overrides:  overrides,
		Comment:    req.Comment,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  result.Message,
		"contract": result.Contract,
		"renewal":  result.Renewal,
	})
}

func (h *Handler) calculateRevenue(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	var periodStart, periodEnd *time.Time
	if raw := c.Query("period_start"); strings.TrimSpace(raw) != "" {
		start, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
			return
		}
		periodStart = &start
	}
	if raw := c.Query("period_end"); strings.TrimSpace(raw) != "" {
		end, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
			return
		}
		periodEnd = &end
	}

	result := h.revenue.CalculateContractRevenue(c.Request.Context(), id, periodStart, periodEnd)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) contractID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoActiveRenewal):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrInvalidStage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrValidation
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, service.ErrValidation
}
