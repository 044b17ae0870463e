package main

import (
	"context"
	"flag"

	"policyrelay/internal/api"
	"policyrelay/internal/config"
	"policyrelay/internal/gemini"
	"policyrelay/internal/relay"
	"policyrelay/internal/server"
	"policyrelay/internal/tracing"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	configPath := flag.String("config", "config.yaml", "path to the optional configuration file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// --- Dependencies ---
	keyRotator := gemini.NewKeyRotator(cfg.Gemini.APIKeys)
	geminiClient := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.Timeout, log)
	relayService := relay.NewService(geminiClient, keyRotator, log)
	analyzeAPI := api.NewAnalyzeAPI(relayService, log)

	// --- HTTP Server ---
	srv := server.New(cfg, analyzeAPI, log)
	srv.OnShutdown(shutdownTracing)

	log.WithFields(logrus.Fields{
		"model":    cfg.Gemini.Model,
		"api_keys": keyRotator.Len(),
		"timeout":  cfg.Gemini.Timeout,
	}).Info("Relay configured")

	srv.Run()
}
