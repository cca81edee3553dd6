package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fashionapp/resale-checkout/internal/order"
	"github.com/fashionapp/resale-checkout/internal/payment"
	"github.com/fashionapp/resale-checkout/internal/product"
	"github.com/fashionapp/resale-checkout/internal/user"
)

// httpError is the standard JSON error body.
type httpError struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	var stockErr *product.InsufficientStockError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrMissingShippingInfo):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrUnauthorizedAddress), errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrNotFound), errors.Is(err, product.ErrVariantNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &stockErr),
		errors.Is(err, user.ErrInsufficientBalance),
		errors.Is(err, payment.ErrOrderNotPaid),
		errors.Is(err, payment.ErrGatewayDeclined):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), httpError{Error: err.Error()})
}

func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		resp, err := svc.PlaceOrder(c.Request.Context(), &req, c.ClientIP())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid order id"})
			return
		}
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "user_id is required"})
			return
		}
		resp, err := svc.OrderDetail(c.Request.Context(), orderID, userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID, err := strconv.ParseInt(c.Query("buyer_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "buyer_id is required"})
			return
		}
		out, err := svc.BuyerHistory(c.Request.Context(), buyerID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func listSalesHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.ParseInt(c.Query("seller_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "seller_id is required"})
			return
		}
		out, err := svc.SalesHistory(c.Request.Context(), sellerID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// payHandler finalizes an order out of band, e.g. on COD cash collection.
// Gateway settlements never come through here; they arrive on the
// signature-verified callback only.
func payHandler(proc *payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid order id"})
			return
		}
		method := c.Query("method")
		if method != order.MethodCOD && method != order.MethodWallet {
			c.JSON(http.StatusBadRequest, httpError{Error: "method must be COD or WALLET"})
			return
		}
		pay, err := proc.ProcessPayment(c.Request.Context(), orderID, method, nil)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, pay)
	}
}

func payoutHandler(proc *payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid order id"})
			return
		}
		payouts, err := proc.CreatePayout(c.Request.Context(), orderID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, payouts)
	}
}

type sellerStats struct {
	TotalRevenue   string `json:"total_revenue"`
	ActiveListings int    `json:"active_listings"`
	TotalSales     int    `json:"total_sales"`
}

func sellerStatsHandler(payouts payment.PayoutRepository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid seller id"})
			return
		}
		active, err := products.CountActiveBySeller(c.Request.Context(), sellerID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		rows, err := payouts.ListBySeller(c.Request.Context(), sellerID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		revenue := decimal.Zero
		for _, p := range rows {
			if p.Status != payment.PayoutStatusCompleted {
				continue
			}
			amt, err := decimal.NewFromString(p.Amount)
			if err != nil {
				abortWithError(c, err)
				return
			}
			revenue = revenue.Add(amt)
		}
		c.JSON(http.StatusOK, sellerStats{
			TotalRevenue:   revenue.String(),
			ActiveListings: active,
			TotalSales:     len(rows),
		})
	}
}

// vnpayCallbackHandler receives the browser redirect from the gateway.
// It always answers with a redirect to a frontend landing page, within
// the gateway's callback window, even when verification fails.
func vnpayCallbackHandler(gw *payment.VNPay, proc *payment.Processor, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := gw.VerifyCallback(c.Request.URL.Query())
		if err != nil {
			c.Redirect(http.StatusFound, frontendURL+"/payment-error?reason=invalid_signature")
			return
		}

		orderRef := strconv.FormatInt(res.TxnRef, 10)
		_, err = proc.ProcessPayment(c.Request.Context(), res.TxnRef, order.MethodVNPay, &payment.GatewayResult{
			AmountMinor:  res.AmountMinor,
			ResponseCode: res.ResponseCode,
		})
		switch {
		case err == nil:
			c.Redirect(http.StatusFound, frontendURL+"/payment-success?orderId="+orderRef)
		case errors.Is(err, payment.ErrGatewayDeclined):
			c.Redirect(http.StatusFound, frontendURL+"/payment-failed?orderId="+orderRef)
		default:
			c.Redirect(http.StatusFound, frontendURL+"/payment-error?reason=processing_failed")
		}
	}
}
