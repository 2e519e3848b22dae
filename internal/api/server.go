// Package api exposes the derived auction views over HTTP. It is a thin
// shell: every answer comes from the refresh orchestrator.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"auctionScope/internal/model"
	"auctionScope/internal/notify"
	"auctionScope/internal/price"
	"auctionScope/internal/refresh"
)

// Server wires the orchestrator, notifier, and price client into HTTP
// handlers.
type Server struct {
	orch     *refresh.Orchestrator
	notifier *notify.Notifier
	price    *price.Client
	logger   *zap.Logger
}

func NewServer(orch *refresh.Orchestrator, notifier *notify.Notifier, priceClient *price.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{orch: orch, notifier: notifier, price: priceClient, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/v1")
	v1.GET("/auction/current", s.currentAuction)
	v1.GET("/auction/:id/bids", s.auctionBids)
	v1.GET("/address/:address/nfts", s.ownedTokens)
	v1.GET("/address/:address/claims", s.claims)
	v1.GET("/address/:address/refund-notification", s.refundNotification)
	v1.POST("/address/:address/refund-notification/dismiss", s.dismissRefund)
	v1.POST("/tx/confirmed", s.txConfirmed)
	if s.price != nil {
		v1.GET("/price/eth", s.ethPrice)
	}

	return router
}

func (s *Server) currentAuction(c *gin.Context) {
	derived, derivedErr := s.orch.DerivedOpenAuction(c.Request.Context())

	auction, err := s.orch.CurrentAuction(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := gin.H{
		"auction": auction,
		"open":    derived != nil,
	}
	if derivedErr != nil {
		// The struct came from cache but the index view is stale; say so
		// instead of silently reporting "no open auction".
		resp["index_error"] = derivedErr.Error()
	}
	if ether, err := model.WeiToEtherDecimal(auction.HigherBid); err == nil {
		resp["higher_bid_ether"] = ether.String()
		if rate, err := s.ethUSDRate(c); err == nil {
			resp["higher_bid_usd"] = ether.Mul(rate).StringFixed(2)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ethPrice(c *gin.Context) {
	rate, err := s.price.EthereumUSD(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ethereum_usd": rate})
}

func (s *Server) auctionBids(c *gin.Context) {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}

	ledger, err := s.orch.BidLedger(c.Request.Context(), auctionID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if ledger == nil {
		c.JSON(http.StatusOK, gin.H{"bids": nil})
		return
	}

	resp := gin.H{
		"bids":               ledger.OrderedBids,
		"ordered_bidders":    ledger.OrderedBidders,
		"highest_bid_amount": ledger.HighestBidAmount,
		"highest_bidder":     ledger.HighestBidder,
	}
	if ether, err := model.WeiToEther(ledger.HighestBidAmount); err == nil {
		resp["highest_bid_ether"] = ether
	}
	if address := c.Query("address"); address != "" {
		resp["status"] = refresh.BidStatus{
			HasBid:    ledger.HasBid(address),
			IsWinning: ledger.IsWinning(address),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ownedTokens(c *gin.Context) {
	tokens, err := s.orch.OwnedTokens(c.Request.Context(), c.Param("address"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (s *Server) claims(c *gin.Context) {
	claims, err := s.orch.AddressClaims(c.Request.Context(), c.Param("address"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (s *Server) refundNotification(c *gin.Context) {
	pending, err := s.notifier.PendingRefund(c.Request.Context(), c.Param("address"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (s *Server) dismissRefund(c *gin.Context) {
	var body struct {
		TxHash string `json:"tx_hash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.notifier.Dismiss(c.Param("address"), body.TxHash); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) txConfirmed(c *gin.Context) {
	var conf refresh.TxConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch conf.Kind {
	case refresh.TxBidPlaced, refresh.TxRefundClaimed, refresh.TxMintClaimed, refresh.TxNftTransferred:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tx kind"})
		return
	}
	s.orch.OnTxConfirmed(conf)
	c.Status(http.StatusAccepted)
}

func (s *Server) ethUSDRate(c *gin.Context) (decimal.Decimal, error) {
	if s.price == nil {
		return decimal.Decimal{}, errors.New("no price client")
	}
	return s.price.EthereumUSD(c.Request.Context())
}

func (s *Server) writeError(c *gin.Context, err error) {
	var transport *model.TransportError
	if errors.As(err, &transport) {
		s.logger.Warn("gateway unreachable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("derivation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
