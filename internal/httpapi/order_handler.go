package httpapi

import (
	"net/http"

	"storemart-be/internal/middleware"
	"storemart-be/internal/order"

	"github.com/gin-gonic/gin"
)

func (s *Server) createOrder(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var input order.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.UserID = userID

	o, err := s.orders.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (s *Server) listMyOrders(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	list, err := s.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// listOrders returns all orders in a status bucket, or the unpaid bucket
// when none is given.
func (s *Server) listOrders(c *gin.Context) {
	b := order.Bucket(c.DefaultQuery("bucket", string(order.BucketUnpaid)))
	switch b {
	case order.BucketUnpaid, order.BucketAwaitingDelivery, order.BucketCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bucket"})
		return
	}

	list, err := s.orders.ListByBucket(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	// Owners see their own orders, admins see everything.
	userID, _ := middleware.UserID(c)
	if o.UserID != userID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	c.JSON(http.StatusOK, o)
}

func (s *Server) payOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var result order.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	userID, _ := middleware.UserID(c)
	if existing.UserID != userID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	o, err := s.orders.Pay(c.Request.Context(), id, result)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) deliverOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := s.orders.Deliver(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.orders.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func (s *Server) purgeUnpaidOrders(c *gin.Context) {
	removed, err := s.orders.PurgeUnpaid(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) purgeCompletedOrders(c *gin.Context) {
	removed, err := s.orders.PurgeCompleted(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
