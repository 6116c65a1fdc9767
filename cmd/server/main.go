package main

import (
	"log"

	_ "taskbot/docs"
	"taskbot/internal/config"
	"taskbot/internal/logger"
	"taskbot/internal/server"
)

// @title           Taskbot API
// @version         1.0
// @description     Task-tracking backend for chat-platform slash commands.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the gateway token.

// @schemes http
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogDevelopment); err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
