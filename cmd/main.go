package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"studymate/internal/composer"
	"studymate/internal/config"
	"studymate/internal/embedding"
	"studymate/internal/extractor"
	"studymate/internal/llm"
	"studymate/internal/nlp"
	"studymate/internal/ocr"
	"studymate/internal/session"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	docs := flag.String("docs", "", "Glob of PDF files to upload")
	query := flag.String("query", "", "One question to answer (non-interactive)")
	topK := flag.Int("k", 0, "Override the number of retrieved chunks")
	export := flag.String("export", "", "Write the conversation transcript CSV to this path on exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *topK > 0 {
		cfg.Retrieval.TopK = *topK
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()
	sess := buildSession(cfg)

	if *docs != "" {
		processDocs(ctx, sess, *docs)
	}

	if *query != "" {
		answer(ctx, sess, *query)
	} else {
		interact(ctx, sess)
	}

	if *export != "" {
		exportTranscript(sess, *export)
	}
}

func buildSession(cfg *config.Config) *session.Session {
	var (
		encoder embedding.Encoder
		err     error
	)
	switch cfg.Embedding.Provider {
	case "openai":
		encoder, err = embedding.NewOpenAIEncoder(os.Getenv(cfg.Embedding.APIKeyEnv), cfg.Embedding.BaseURL, cfg.Embedding.Model)
	default:
		encoder, err = embedding.NewOllamaEncoder(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	var pageOCR extractor.OCR
	if cfg.OCR.Enabled {
		tess, err := ocr.NewTesseract(cfg.OCR.Language)
		if err != nil {
			log.Warn().Err(err).Msg("Tesseract unavailable, pages without a text layer stay empty")
		} else {
			pageOCR = tess
		}
	}

	params := llm.Params{
		MaxNewTokens: cfg.Generation.MaxNewTokens,
		Temperature:  *cfg.Generation.Temperature,
		TopP:         cfg.Generation.TopP,
	}
	var generators []composer.Generator
	if granite, err := llm.NewGranite(os.Getenv(cfg.Primary.APIKeyEnv), cfg.Primary.BaseURL, cfg.Primary.Model, params); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize primary backend")
	} else if granite != nil {
		generators = append(generators, granite)
	}
	if cfg.Secondary.Enabled {
		if hugchat, err := llm.NewHugChat(os.Getenv(cfg.Secondary.TokenEnv), cfg.Secondary.Model, params); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize secondary backend")
		} else if hugchat != nil {
			generators = append(generators, hugchat)
		}
	}
	if len(generators) == 0 {
		log.Warn().Msg("No generation backend available, answers will be a notice only")
	}

	deps := session.Deps{
		Extractor:  extractor.New(pageOCR, log.Logger),
		Encoder:    encoder,
		Composer:   composer.New(log.Logger, generators...),
		Summarizer: nlp.NewInferenceClient(os.Getenv(cfg.Secondary.TokenEnv), cfg.Summary.Model, 0),
	}
	if cfg.Translation.Enabled {
		deps.Detector = nlp.NewLinguaDetector()
		deps.Translator = nlp.NewInferenceClient(os.Getenv(cfg.Secondary.TokenEnv), cfg.Translation.Model, 0)
	}

	sess, err := session.New(log.Logger, deps, session.Settings{
		ChunkSize:        cfg.Chunking.Size,
		ChunkOverlap:     *cfg.Chunking.Overlap,
		TopK:             cfg.Retrieval.TopK,
		TranslateQuery:   cfg.Translation.Enabled,
		TargetLanguage:   cfg.Translation.TargetLanguage,
		SummaryMinLength: cfg.Summary.MinLength,
		SummaryMaxLength: cfg.Summary.MaxLength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating session")
	}
	return sess
}

func processDocs(ctx context.Context, sess *session.Session, pattern string) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		log.Fatal().Err(err).Str("pattern", pattern).Msg("Invalid docs pattern")
	}
	if len(matches) == 0 {
		log.Fatal().Str("pattern", pattern).Msg("No documents match the pattern")
	}

	var files []session.File
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			log.Fatal().Err(err).Str("file", m).Msg("Error reading document")
		}
		files = append(files, session.File{Name: filepath.Base(m), Data: data})
	}

	report, err := sess.Process(ctx, files)
	if err != nil {
		log.Fatal().Err(err).Msg("Error processing documents")
	}
	for name, ferr := range report.Failures {
		log.Error().Err(ferr).Str("document", name).Msg("Document skipped")
	}
	fmt.Printf("Processed %d document(s), %d chunk(s) indexed.\n\n", len(report.Documents), report.ChunkCount)
}

func answer(ctx context.Context, sess *session.Session, query string) {
	msg := sess.Ask(ctx, query)

	fmt.Printf("Question:\n%s\n\n", query)
	if msg.Source != "" {
		fmt.Printf("Source:\n%s\n\n", msg.Source)
	}
	fmt.Printf("Assistant:\n%s\n\n", msg.Content)
}

func interact(ctx context.Context, sess *session.Session) {
	fmt.Println("Ask a question, or use /summary, /export <path>, /quit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/summary":
			for _, s := range sess.Summaries(ctx) {
				fmt.Printf("Summary for %s:\n%s\n\n", s.Name, s.Summary)
			}
		case strings.HasPrefix(line, "/export "):
			exportTranscript(sess, strings.TrimSpace(strings.TrimPrefix(line, "/export ")))
		default:
			answer(ctx, sess, line)
		}
	}
}

func exportTranscript(sess *session.Session, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Error creating transcript file")
		return
	}
	defer f.Close()
	if err := sess.ExportTranscript(f); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Error writing transcript")
		return
	}
	fmt.Printf("Transcript written to %s\n", path)
}
