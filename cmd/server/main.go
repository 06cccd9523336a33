package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/velocityathletics/velocity/internal/cart"
	"github.com/velocityathletics/velocity/internal/catalog"
	"github.com/velocityathletics/velocity/internal/config"
	"github.com/velocityathletics/velocity/internal/events"
	"github.com/velocityathletics/velocity/internal/httpx"
	kafkax "github.com/velocityathletics/velocity/internal/kafka"
	"github.com/velocityathletics/velocity/internal/redisx"
	"github.com/velocityathletics/velocity/internal/stripe"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog: embedded fixtures, validated at load.
	src, err := catalog.NewFixtureSource()
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	sizes, err := src.ListSizes(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load sizes")
	}

	// Cart store: redis when configured, in-memory otherwise.
	var store cart.Store = cart.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		store = redisx.NewCartStore(rdb, sizes)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis cart store")
	}

	// Kafka producer: optional, publish-only.
	var pub httpx.EventPublisher
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCheckoutSessionCreated, 1024)
		prod.Start(ctx)
		pub = prod
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing checkout events")
	}

	sessions := stripe.New(cfg.StripeAPIBase, cfg.StripeSecretKey)

	router := httpx.NewRouter()
	(&httpx.CheckoutHandler{Sessions: sessions, Events: pub, Service: cfg.ServiceName, Log: log}).Register(router)
	(&httpx.CatalogHandler{Source: src, Log: log}).Register(router)
	(&httpx.CartHandler{Store: store, Source: src, Sessions: sessions, Events: pub, Service: cfg.ServiceName, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush buffered events & close writer
		cancel()
		prod.WaitClosed()
	}
}
