package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"signd/internal/classifier"
	"signd/internal/config"
	"signd/internal/httpapi"
	"signd/internal/registry"
	"signd/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("signd: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "signd",
		Short:         "Traffic sign classification HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.Flags()
	f.StringVar(&configPath, "config", envOr("SIGND_CONFIG", ""), "Optional config file (.yaml/.json/.toml); flags override its values")
	f.String("addr", ":8080", "HTTP listen address, e.g. :8080 (env SIGND_ADDR)")
	f.String("models-dir", "/models", "Directory to scan for *.onnx model artifacts (env SIGND_MODELS_DIR)")
	f.String("model", "", "Model artifact id when the directory holds several")
	f.Int("top-k", 0, "Number of ranked predictions returned per request (0=default 3)")
	f.Int("max-upload-mb", 0, "Maximum image upload size in MB (0=default 10)")
	f.String("ort-lib", "", "Path to the onnxruntime shared library (env SIGND_ORT_LIB)")
	f.String("log-level", "", "Log level: off|error|info|debug (env SIGND_LOG_LEVEL)")
	f.Bool("cors", false, "Enable CORS for browser clients")
	f.StringSlice("cors-origin", nil, "Allowed CORS origins (default *)")
	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, configPath)
		if err != nil {
			return err
		}
		return run(cfg)
	}
	return root
}

// resolveConfig loads the optional config file and applies flag and
// environment overrides on top of it.
func resolveConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	f := cmd.Flags()
	// Precedence: flag > environment > config file > flag default.
	strFlag := func(name, env string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
			return
		}
		if *dst == "" {
			*dst, _ = f.GetString(name)
		}
	}
	strFlag("addr", "SIGND_ADDR", &cfg.Addr)
	strFlag("models-dir", "SIGND_MODELS_DIR", &cfg.ModelsDir)
	strFlag("model", "SIGND_MODEL", &cfg.Model)
	strFlag("ort-lib", "SIGND_ORT_LIB", &cfg.ORTLibrary)
	strFlag("log-level", "SIGND_LOG_LEVEL", &cfg.LogLevel)
	if f.Changed("top-k") || cfg.TopK == 0 {
		cfg.TopK, _ = f.GetInt("top-k")
	}
	if f.Changed("max-upload-mb") || cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB, _ = f.GetInt("max-upload-mb")
	}
	if f.Changed("cors") {
		cfg.CORSEnabled, _ = f.GetBool("cors")
	}
	if f.Changed("cors-origin") {
		cfg.CORSOrigins, _ = f.GetStringSlice("cors-origin")
	}
	return cfg, nil
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)
	httpapi.SetLogger(logger)

	// Discover the model artifact. A failed scan leaves the service degraded
	// rather than dead: /health exposes the condition to callers.
	var artifact types.ModelArtifact
	if artifacts, err := registry.LoadDir(cfg.ModelsDir); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("model scan failed")
	} else if artifact, err = registry.Select(artifacts, cfg.Model); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("no usable model artifact")
	}
	meta, err := registry.LoadMetadata(artifact)
	if err != nil {
		return err
	}

	clf, err := classifier.New(classifier.Config{
		Artifact:   artifact,
		Metadata:   meta,
		TopK:       cfg.TopK,
		ORTLibrary: cfg.ORTLibrary,
	})
	if err != nil {
		return err
	}
	defer clf.Close()
	if clf.Ready() {
		logger.Info().Str("model", artifact.Path).Int("classes", len(meta.Classes)).Msg("model loaded")
	} else {
		logger.Warn().Str("reason", clf.LoadError()).Msg("serving degraded; /predict will return 503")
	}

	if cfg.MaxUploadMB > 0 {
		httpapi.SetMaxBodyBytes(int64(cfg.MaxUploadMB) << 20)
	}
	if cfg.CORSEnabled {
		origins := cfg.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
			[]string{"Content-Type", "X-Log-Level"})
	}

	// Base context canceled on shutdown so in-flight predictions stop too.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(clf)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("signd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
