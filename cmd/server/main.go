package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/chegg-game/chegg-server/internal/auth"
	"github.com/chegg-game/chegg-server/internal/database"
	"github.com/chegg-game/chegg-server/internal/handlers"
	"github.com/chegg-game/chegg-server/internal/middleware"
	"github.com/chegg-game/chegg-server/internal/room"
	"github.com/chegg-game/chegg-server/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	kv, err := store.ConnectRedis()
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	archive, err := database.Connect(context.Background())
	if err != nil {
		logger.Warnf("postgres archive disabled: %v", err)
		archive = nil
	}

	manager := room.NewManager(room.Deps{
		Log:     logger,
		Store:   kv,
		Archive: archive,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, manager),
	)))
	mux.Handle("/healthz", middleware.LogMiddleware(logger)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		},
	)))

	addr := ":1109"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("CHEGG server running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
