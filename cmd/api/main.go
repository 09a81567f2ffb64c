package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bookstay/hotel-booking-engine/internal/adapter/handler"
	stripegw "github.com/bookstay/hotel-booking-engine/internal/adapter/payment/stripe"
	"github.com/bookstay/hotel-booking-engine/internal/adapter/repository/postgres"
	"github.com/bookstay/hotel-booking-engine/internal/core/pricing"
	"github.com/bookstay/hotel-booking-engine/internal/core/services"
	"github.com/bookstay/hotel-booking-engine/internal/platform/database"
)

func loadEnv(filepath string, log *logrus.Logger) {
	file, err := os.Open(filepath)
	if err != nil {
		log.Info(".env file not found, using OS environment variables.")
		return
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			os.Setenv(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Errorf("Failed to read .env file: %v", err)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	loadEnv(".env", log)

	dbConfig := database.Config{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", "hotel_booking"),
	}

	db, err := database.NewPostgresDB(dbConfig, log)
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	redisAddr := fmt.Sprintf("%s:%s", getenv("REDIS_HOST", "localhost"), getenv("REDIS_PORT", "6379"))
	log.Infof("Connecting to Redis at %s...", redisAddr)

	redisClient := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Redis connected successfully!")

	hotelRepo := postgres.NewHotelRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	minPriceRepo := postgres.NewMinPriceRepository(db)

	gateway := stripegw.NewGateway(
		getenv("STRIPE_API_KEY", ""),
		getenv("CURRENCY", "usd"),
	)

	pricingSvc := pricing.NewService()
	frontendURL := getenv("FRONTEND_URL", "http://localhost:3000")

	bookingSvc := services.NewBookingService(
		hotelRepo, roomRepo, guestRepo, bookingRepo, inventoryRepo,
		gateway, pricingSvc, redisClient, log, frontendURL,
	)
	inventorySvc := services.NewInventoryService(
		hotelRepo, roomRepo, inventoryRepo, minPriceRepo, redisClient, log,
	)
	repricer := services.NewRepricer(
		hotelRepo, inventoryRepo, minPriceRepo, pricingSvc, redisClient, log,
	)
	reaper := services.NewReaper(bookingRepo, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	go reaper.Run(workerCtx)

	cronRunner, err := repricer.Start(workerCtx)
	if err != nil {
		log.Fatalf("Failed to start repricer: %v", err)
	}

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	hotelHandler := handler.NewHotelHandler(bookingSvc, inventorySvc)
	webhookHandler := handler.NewWebhookHandler(bookingSvc, getenv("STRIPE_WEBHOOK_SECRET", ""), log)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings", bookingHandler.CreateBooking)
	mux.HandleFunc("GET /bookings", bookingHandler.ListMyBookings)
	mux.HandleFunc("POST /bookings/{bookingID}/guests", bookingHandler.AddGuests)
	mux.HandleFunc("POST /bookings/{bookingID}/payments", bookingHandler.InitiatePayment)
	mux.HandleFunc("POST /bookings/{bookingID}/cancel", bookingHandler.CancelBooking)
	mux.HandleFunc("GET /bookings/{bookingID}/status", bookingHandler.GetBookingStatus)

	mux.HandleFunc("GET /hotels/search", hotelHandler.Search)
	mux.HandleFunc("GET /hotels/{hotelID}/info", hotelHandler.GetInfo)
	mux.HandleFunc("GET /hotels/{hotelID}/bookings", hotelHandler.ListBookings)
	mux.HandleFunc("GET /hotels/{hotelID}/report", hotelHandler.GetReport)
	mux.HandleFunc("POST /hotels/{hotelID}/activate", hotelHandler.Activate)
	mux.HandleFunc("DELETE /hotels/{hotelID}/rooms/{roomID}", hotelHandler.RemoveRoom)

	mux.HandleFunc("POST /webhooks/payment", webhookHandler.HandlePaymentEvent)

	server := &http.Server{
		Addr:         ":" + getenv("SERVER_PORT", "8080"),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	stopWorkers()
	<-cronRunner.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting")
}
