package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

var flagRunAddr string
var flagLogLevel string
var flagWebhookPath string
var flagEnvFile string
var flagOtelEndpoint string
var flagOtelProtocol string

func parseFlags() {
	flag.StringVar(&flagRunAddr, "a", ":8080", "address and port")
	flag.StringVar(&flagLogLevel, "l", "info", "log level")
	flag.StringVar(&flagWebhookPath, "p", "/", "webhook path")
	flag.StringVar(&flagEnvFile, "e", ".env", "optional env file")
	flag.StringVar(&flagOtelEndpoint, "otel-endpoint", "", "OTLP collector host:port, tracing is off when empty")
	flag.StringVar(&flagOtelProtocol, "otel-protocol", "http", "OTLP protocol: http or grpc")
	flag.Parse()

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		flagEnvFile = envFile
	}
	// a missing file is fine, the process environment still applies
	_ = godotenv.Load(flagEnvFile)

	if envRunAddr := os.Getenv("RUN_ADDR"); envRunAddr != "" {
		flagRunAddr = envRunAddr
	}

	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		flagLogLevel = envLogLevel
	}

	if envWebhookPath := os.Getenv("WEBHOOK_PATH"); envWebhookPath != "" {
		flagWebhookPath = envWebhookPath
	}

	if envOtelEndpoint := os.Getenv("OTEL_ENDPOINT"); envOtelEndpoint != "" {
		flagOtelEndpoint = envOtelEndpoint
	}

	if envOtelProtocol := os.Getenv("OTEL_PROTOCOL"); envOtelProtocol != "" {
		flagOtelProtocol = envOtelProtocol
	}
}
