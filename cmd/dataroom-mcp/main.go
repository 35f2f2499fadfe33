package main

import (
	"context"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Initialize logger with default configuration
	log, err := logger.NewLogger(logger.LogConfig{})
	if err != nil {
		// Fall back to stderr if logger initialization fails
		panic(err)
	}

	log.Info("Starting dataroom-mcp server")

	srv := server.CreateServer(log)
	err = srv.Run(context.Background(), &mcp.StdioTransport{})
	if err != nil {
		log.Fatal("Server failed: %v", err)
	}
}
