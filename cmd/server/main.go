package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/attest-hq/attest/internal/api"
	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/pkg/openapi"
)

func main() {
	specPath := flag.String("openapi", "", "write the OpenAPI document to the given file and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	if *specPath != "" {
		if err := openapi.WriteJSON(api.BuildSpec(cfg), *specPath); err != nil {
			log.Fatal("openapi write failed:", err)
		}
		return
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed:", err)
	}

	if err := server.Start(); err != nil {
		log.Fatal("server start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := server.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}
}
