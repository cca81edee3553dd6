package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fashionapp/resale-checkout/internal/address"
	"github.com/fashionapp/resale-checkout/internal/config"
	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/fashionapp/resale-checkout/internal/httpx"
	"github.com/fashionapp/resale-checkout/internal/order"
	"github.com/fashionapp/resale-checkout/internal/payment"
	"github.com/fashionapp/resale-checkout/internal/product"
	"github.com/fashionapp/resale-checkout/internal/user"
)

func newLogger() *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stdout"}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	l, err := zcfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return l
}

func main() {
	cfg := config.Load()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	runner := db.NewPGRunner(pool)
	orders := order.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	users := user.NewPGRepo(pool)
	addresses := address.NewPGRepo(pool)
	payments := payment.NewPGPaymentRepo(pool)
	payouts := payment.NewPGPayoutRepo(pool)

	gateway := payment.NewVNPay(payment.VNPayConfig{
		TmnCode:    cfg.VNPTmnCode,
		HashSecret: cfg.VNPHashSecret,
		PayURL:     cfg.VNPPayURL,
		ReturnURL:  cfg.VNPReturnURL,
	})
	processor := payment.NewProcessor(runner, orders, products, users, payments, payouts, logger)
	checkout := order.NewService(runner, orders, products, users, addresses, gateway, processor, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(logger), httpx.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/orders", createOrderHandler(checkout))
	api.GET("/orders", listOrdersHandler(checkout))
	api.GET("/orders/:id", getOrderHandler(checkout))
	api.GET("/sales", listSalesHandler(checkout))
	api.POST("/payments/:id", payHandler(processor))
	api.POST("/payouts/:id", payoutHandler(processor))
	api.GET("/sellers/:id/stats", sellerStatsHandler(payouts, products))
	api.GET("/payment/vnpay-callback", vnpayCallbackHandler(gateway, processor, cfg.FrontendURL))

	srv := &http.Server{Addr: cfg.CheckoutSvcAddr, Handler: r}
	go func() {
		logger.Info("checkout-service listening", zap.String("addr", cfg.CheckoutSvcAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("checkout-service stopped")
}
