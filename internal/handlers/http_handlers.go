package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"raffle/internal/raffle"

	"github.com/gin-gonic/gin"
)

// CallerHeader names the header the transport layer uses to identify the
// principal making the call.
const CallerHeader = "X-Caller"

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	service *raffle.Service
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *raffle.Service) *HTTPHandler {
	return &HTTPHandler{
		service: service,
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/raffles", h.CreateRaffle)
	router.GET("/raffles", h.ListRaffles)
	router.GET("/raffles/:id", h.GetRaffle)
	router.GET("/raffles/:id/tickets", h.GetTickets)
	router.GET("/raffles/:id/tickets/:ticketId", h.GetTicket)
	router.GET("/raffles/:id/stats", h.GetStats)
	router.POST("/raffles/:id/prize", h.DepositPrize)
	router.POST("/raffles/:id/tickets", h.BuyTickets)
	router.POST("/raffles/:id/finalize", h.FinalizeRaffle)
	router.POST("/raffles/:id/claim", h.ClaimPrize)
	router.POST("/raffles/:id/revenue", h.WithdrawRevenue)
}

func caller(c *gin.Context) string {
	return c.GetHeader(CallerHeader)
}

// CreateRaffle registers a new raffle for the calling creator.
func (h *HTTPHandler) CreateRaffle(c *gin.Context) {
	var params raffle.CreateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.service.Create(caller(c), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRaffles serves one page of the raffle registry.
func (h *HTTPHandler) ListRaffles(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(raffle.MaxPageLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	newestFirst := c.DefaultQuery("newest_first", "false") == "true"

	page, err := h.service.ListRaffleIDs(offset, limit, newestFirst)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetRaffle returns one raffle record.
func (h *HTTPHandler) GetRaffle(c *gin.Context) {
	r, err := h.service.GetRaffle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// GetTickets returns the raffle's ticket ledger in purchase order.
func (h *HTTPHandler) GetTickets(c *gin.Context) {
	tickets, err := h.service.GetTickets(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicket returns one ticket by its id within the raffle.
func (h *HTTPHandler) GetTicket(c *gin.Context) {
	ticketID, err := strconv.ParseUint(c.Param("ticketId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ticket, err := h.service.GetTicket(c.Param("id"), uint32(ticketID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// GetStats returns the raffle's sales summary.
func (h *HTTPHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DepositPrize escrows the prize amount from the creator.
func (h *HTTPHandler) DepositPrize(c *gin.Context) {
	if err := h.service.DepositPrize(caller(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposited": true})
}

type buyTicketsRequest struct {
	Buyer    string `json:"buyer"`
	Quantity uint32 `json:"quantity"`
}

// BuyTickets sells tickets to the calling buyer.
func (h *HTTPHandler) BuyTickets(c *gin.Context) {
	request := buyTicketsRequest{Quantity: 1}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if request.Buyer == "" {
		request.Buyer = caller(c)
	}

	sold, err := h.service.BuyTickets(caller(c), c.Param("id"), request.Buyer, request.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticketsSold": sold})
}

type finalizeRequest struct {
	RandomnessSource string `json:"randomnessSource"`
}

// FinalizeRaffle closes sales and picks the winner.
func (h *HTTPHandler) FinalizeRaffle(c *gin.Context) {
	var request finalizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	winner, err := h.service.Finalize(caller(c), c.Param("id"), request.RandomnessSource)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"winner": winner})
}

type claimRequest struct {
	Claimant string `json:"claimant"`
}

// ClaimPrize pays the prize out to the winner.
func (h *HTTPHandler) ClaimPrize(c *gin.Context) {
	var request claimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if request.Claimant == "" {
		request.Claimant = caller(c)
	}

	net, err := h.service.ClaimPrize(caller(c), c.Param("id"), request.Claimant)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"netAmount": net})
}

// WithdrawRevenue releases escrowed ticket proceeds to the creator.
func (h *HTTPHandler) WithdrawRevenue(c *gin.Context) {
	amount, err := h.service.WithdrawRevenue(caller(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, raffle.ErrRaffleNotFound),
		errors.Is(err, raffle.ErrTicketNotFound),
		errors.Is(err, raffle.ErrNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, raffle.ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, raffle.ErrNotWinner):
		return http.StatusForbidden
	case errors.Is(err, raffle.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, raffle.ErrInvalidParameters), errors.Is(err, raffle.ErrArithmeticOverflow):
		return http.StatusBadRequest
	case errors.Is(err, raffle.ErrRaffleInactive),
		errors.Is(err, raffle.ErrRaffleEnded),
		errors.Is(err, raffle.ErrRaffleStillRunning),
		errors.Is(err, raffle.ErrNoTicketsSold),
		errors.Is(err, raffle.ErrTicketsSoldOut),
		errors.Is(err, raffle.ErrInsufficientTickets),
		errors.Is(err, raffle.ErrMultipleTicketsNotAllowed),
		errors.Is(err, raffle.ErrPrizeAlreadyDeposited),
		errors.Is(err, raffle.ErrPrizeNotDeposited),
		errors.Is(err, raffle.ErrPrizeAlreadyClaimed),
		errors.Is(err, raffle.ErrRevenueAlreadyWithdrawn),
		errors.Is(err, raffle.ErrAlreadyInitialized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
