package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/quizlive/quiz-services/configs"
	"github.com/quizlive/quiz-services/internal/gamesvc/broadcast"
	"github.com/quizlive/quiz-services/internal/gamesvc/db"
	handlers "github.com/quizlive/quiz-services/internal/gamesvc/handlers"
	"github.com/quizlive/quiz-services/internal/gamesvc/service"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
	"github.com/quizlive/quiz-services/internal/gamesvc/templates"
	nats "github.com/quizlive/quiz-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// template store (read-only authoring db)
	templateStore, cancelMongo, err := templates.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to template store: %v", err)
	}
	defer cancelMongo()
	log.Printf("template store connection established successfully")

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	pub := broadcast.NewNatsPublisher(n.Conn)

	roomStore := store.NewRoomStore(dbpool)
	playerStore := store.NewPlayerStore(dbpool)
	answerStore := store.NewAnswerStore(dbpool)

	roomService := service.NewRoomService(roomStore, playerStore, templateStore, pub)
	playerService := service.NewPlayerService(roomStore, playerStore, templateStore, pub)
	leaderboardService := service.NewLeaderboardService(roomStore, playerStore, answerStore)
	answerService := service.NewAnswerService(roomStore, playerStore, answerStore, templateStore, leaderboardService, pub)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(roomService, playerService, answerService, leaderboardService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
