package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// QuoteService is the quote use case surface the handler needs.
type QuoteService interface {
	Price(ctx context.Context, userID string, sub domain.QuoteSubmission) (domain.Price, error)
	Submit(ctx context.Context, userID string, sub domain.QuoteSubmission) (*domain.FuelQuote, error)
	Get(ctx context.Context, userID, id string) (*domain.FuelQuote, error)
	History(ctx context.Context, userID string, page domain.PageQuery) ([]*domain.FuelQuote, error)
	PageSize(ctx context.Context, requested int) int
}

// QuoteHandler handles fuel quote endpoints.
type QuoteHandler struct {
	service QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Price handles POST /api/v1/price.
// Returns the current suggested and total price without storing a quote.
//
// @Summary Price a fuel request
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body dto.PriceRequest true "Requested gallons, delivery date and address"
// @Success 200 {object} dto.PriceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/price [post]
func (h *QuoteHandler) Price(c *gin.Context) {
	var req dto.PriceRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RespondBadRequest(c, "request body must be a JSON object")
		return
	}

	price, err := h.service.Price(c.Request.Context(), middleware.UserID(c), req.ToSubmission())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPriceResponse(price))
}

// Create handles POST /api/v1/quotes.
//
// @Summary Submit a fuel quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuoteRequest true "Quote to store"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RespondBadRequest(c, "request body must be a JSON object")
		return
	}

	quote, err := h.service.Submit(c.Request.Context(), middleware.UserID(c), req.ToSubmission())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+quote.ID)
	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// List handles GET /api/v1/quotes.
// Returns the caller's quote history newest first, one cursor page at a time.
//
// @Summary List quote history
// @Tags quotes
// @Produce json
// @Param cursor query string false "nextCursor of the previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQuery(c, &req); err != nil {
		respondQueryError(c, err)
		return
	}

	cursor, err := req.DecodeCursor()
	if err != nil {
		dto.RespondBadRequest(c, "cursor is invalid")
		return
	}

	ctx := c.Request.Context()
	limit := h.service.PageSize(ctx, req.Limit)

	page, err := dto.PageQuery(cursor, limit)
	if err != nil {
		dto.RespondBadRequest(c, "cursor is invalid")
		return
	}

	quotes, err := h.service.History(ctx, middleware.UserID(c), page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, dto.NewQuoteResponse(q))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, limit, dto.QuoteCursor))
}

// Get handles GET /api/v1/quotes/:id.
// Quotes of other users are reported as not found.
//
// @Summary Get a stored quote
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.POST("/price", h.Price)

	quotes := rg.Group("/quotes")
	quotes.POST("", h.Create)
	quotes.GET("", h.List)
	quotes.GET("/:id", h.Get)
}

func respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrBinding) {
		dto.RespondBadRequest(c, "query parameters are malformed")
		return
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
		dto.ErrorCodeValidation, "request validation failed", dto.ValidationErrors(err),
	).WithTraceID(dto.GetTraceID(c)))
}
