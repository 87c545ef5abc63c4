package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voxcal/internal/agent"
	"voxcal/internal/assistant"
	"voxcal/internal/audio"
	"voxcal/internal/gcal"
	"voxcal/internal/logging"
	"voxcal/internal/nldate"
	"voxcal/internal/proxy"
	"voxcal/internal/transcribe"
	"voxcal/internal/tts"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	modelPath := cli.StringP("model", "m", "models/ggml-base.bin", "Whisper model path")
	credsDir := cli.StringP("credentials", "c", "credentials", "Directory with credentials.json / token.json")
	proxyAddr := cli.StringP("proxy", "p", "", "Optional SOCKS5 proxy address for the OpenAI client")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	logFile := cli.String("log-file", "logs/assistant.log", "Log file path (empty = console only)")
	zone := cli.String("timezone", "Asia/Kolkata", "Fallback event timezone")
	chimePath := cli.String("chime", "", "Optional mp3 cue played before recording")
	cli.Parse()

	logger, closeLog, err := logging.Setup(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging setup:", err)
		os.Exit(1)
	}
	defer closeLog()
	log.SetDefault(logger)

	log.Info("Booting up")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if *proxyAddr != "" {
		httpClient, err := proxy.HTTPClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
		log.Debug("Loaded proxy")
	}
	client := openai.NewClient(opts...)

	whisper := transcribe.NewAdapter(*modelPath, transcribe.Options{})
	defer whisper.Close()
	log.Debug("Loaded whisper adapter", "model", *modelPath)

	ctx := context.Background()
	gateway, err := gcal.New(ctx, gcal.Config{
		CredentialsDir: *credsDir,
		DefaultZone:    *zone,
		Logger:         logger,
		Input:          os.Stdin,
		Output:         os.Stdout,
	})
	if err != nil {
		log.Error("Failed to open calendar session", "err", err)
		os.Exit(1)
	}
	log.Debug("Loaded calendar gateway")

	a := &assistant.Assistant{
		Transcriber: whisper,
		Extractor:   nldate.New(),
		Interpreter: agent.New(client, os.Getenv("OPENAI_MODEL"), logger),
		Calendar:    gateway,
		Speaker:     assistant.SpeakerFunc(tts.Speak),
		Logger:      logger,
		In:          os.Stdin,
		Out:         os.Stdout,
	}

	if rec, err := audio.NewRecorder(*chimePath); err != nil {
		log.Warn("Microphone unavailable, 'record' disabled", "err", err)
	} else {
		defer rec.Close()
		a.Capturer = rec
	}

	log.Info("Boot up - successful")

	if err := a.Run(ctx); err != nil {
		log.Error("Session loop failed", "err", err)
		os.Exit(1)
	}
	log.Info("Goodbye")
}
