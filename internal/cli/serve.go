package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/api"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/worker"
)

var probe bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-checking HTTP API",
	Long: `Serve starts the HTTP API:

  POST /api/fact-check       - Single fact check
  POST /api/fact-check-bulk  - Multiple facts check (1-50)
  POST /api/fact-check-file  - File content check (one claim per line)
  GET  /api/health           - Health check

The provider API key must be set (GROQ_API_KEY for the default provider,
or VERITAS_LLM_API_KEY for any provider). The server refuses to start
without it.

Example:
  GROQ_API_KEY=gsk_... veritas serve
  veritas serve --port 8080 --provider openai --model gpt-4o-mini
  veritas serve --probe`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 3000, "HTTP listen port (env: PORT)")
	serveCmd.Flags().String("provider", "groq", "inference provider (groq, openai, anthropic, ollama, gemini)")
	serveCmd.Flags().String("model", "", "model name (default: provider's default, llama3-8b-8192 for groq)")
	serveCmd.Flags().Int("concurrency", 3, "maximum in-flight provider calls per batch")
	serveCmd.Flags().BoolVar(&probe, "probe", false, "verify provider credentials before listening")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("llm.provider", serveCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", serveCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("dispatch.concurrency", serveCmd.Flags().Lookup("concurrency"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if probe {
		probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err := p.Provider().Ping(probeCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("provider probe failed: %w", err)
		}
		logger.Info("provider reachable", zap.String("provider", p.Provider().Name()))
	}

	processor := worker.NewBatchProcessor(p, cfg.Dispatch.Concurrency, logger)
	server := api.NewServer(cfg, processor, p.Provider(), logger)

	return server.ListenAndServe(ctx)
}
