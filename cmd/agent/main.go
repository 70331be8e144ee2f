package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	agentcmd "github.com/voxelbot/voxelbot/internal/cmd/agent"
)

// main connects the agent to the game bridge and serves MCP on stdio.
func main() {
	cfg, err := agentcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[AGENT] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := agentcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run agent: %v", err)
	}
}
