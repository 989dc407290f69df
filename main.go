// Command mockllm runs the trajectory-replay mock LLM server standalone.
//
// Usage:
//
//	mockllm [trajectory-path]
//
// The trajectory path may also be set via TRAJECTORY_PATH; the positional
// argument wins. Without a trajectory every chat-completions call serves the
// default response.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiaot623/llmreplay/config"
	"github.com/xiaot623/llmreplay/mockllm"
	"github.com/xiaot623/llmreplay/store"
	"github.com/xiaot623/llmreplay/trajectory"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.HTTPPort, "port to listen on")
	flag.Parse()

	trajectoryPath := cfg.TrajectoryPath
	if flag.NArg() > 0 {
		trajectoryPath = flag.Arg(0)
	}

	var traj *trajectory.Trajectory
	if trajectoryPath != "" {
		var err error
		traj, err = trajectory.Load(trajectoryPath)
		if err != nil {
			log.Fatalf("Failed to load trajectory: %v", err)
		}
		log.Printf("Loaded trajectory: %s", traj.Name)
		log.Printf("  - %d user inputs", len(traj.UserInputs()))
		log.Printf("  - %d LLM responses to replay", len(traj.LLMResponses()))
	}

	var replayLog store.ReplayLog
	if cfg.DatabaseURL != "" {
		sqliteLog, err := store.NewSQLiteReplayLog(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open replay log: %v", err)
		}
		defer sqliteLog.Close()
		replayLog = sqliteLog
	}

	server := mockllm.NewServer(traj, cfg.Host, *port, replayLog)
	baseURL, err := server.Start()
	if err != nil {
		log.Fatalf("Failed to start mock LLM server: %v", err)
	}

	log.Printf("Mock LLM server running at %s", baseURL)
	log.Printf("Endpoints:")
	log.Printf("  - GET  %s/health", baseURL)
	log.Printf("  - GET  %s/reset", baseURL)
	log.Printf("  - POST %s/chat/completions", baseURL)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down mock LLM server...")
	if err := server.Stop(); err != nil {
		log.Printf("Failed to shut down gracefully: %v", err)
	}
	log.Println("Mock LLM server stopped")
}
