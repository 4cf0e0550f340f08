package cmd

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/reviewloop/internal/ai"
	"github.com/reviewloop/internal/analysis"
	"github.com/reviewloop/internal/api"
	"github.com/reviewloop/internal/config"
	"github.com/reviewloop/internal/githubclient"
	"github.com/reviewloop/internal/logging"
	"github.com/reviewloop/internal/review"
	"github.com/reviewloop/internal/webhook"
	"github.com/reviewloop/pkg/models"
)

// ServeCommand returns the CLI command that runs the webhook service.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the review webhook server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the configured server port",
			},
		},
		Action: runServe,
	}
}

type statusInfo struct {
	backend  string
	maxFiles int
	maxLines int
}

func (s statusInfo) BackendName() string  { return s.backend }
func (s statusInfo) MaxFiles() int        { return s.maxFiles }
func (s statusInfo) MaxLinesPerFile() int { return s.maxLines }

// reviewStack holds the wired review components shared by the serve and
// review commands.
type reviewStack struct {
	cfg      *config.Config
	backend  ai.Backend
	client   *githubclient.Client
	pipeline *review.Pipeline
}

func buildReviewStack(c *cli.Context) (*reviewStack, error) {
	godotenv.Load()

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	backend, err := ai.Select(ai.Config{
		AnthropicAPIKey: cfg.AI.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.AI.OpenAIAPIKey,
		Model:           cfg.AI.Model,
		Timeout:         cfg.ReviewTimeout(),
	})
	if err != nil {
		return nil, err
	}

	ghClient := githubclient.NewClient(cfg.GitHub.Token)
	orchestrator := analysis.NewOrchestrator(backend, ghClient)
	pipeline := review.NewPipeline(ghClient, orchestrator, review.Limits{
		MaxFiles:        cfg.Review.MaxFilesToReview,
		MaxLinesPerFile: cfg.Review.MaxLinesPerFile,
		MinSeverity:     models.ParseSeverity(cfg.Review.MinSeverity),
	})

	return &reviewStack{
		cfg:      cfg,
		backend:  backend,
		client:   ghClient,
		pipeline: pipeline,
	}, nil
}

func runServe(c *cli.Context) error {
	stack, err := buildReviewStack(c)
	if err != nil {
		return err
	}
	cfg := stack.cfg
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	verifier := webhook.NewVerifier(cfg.GitHub.WebhookSecret)
	router := webhook.NewRouter(stack.pipeline)
	handler := webhook.NewHandler(verifier, router)

	manual := review.NewManualTrigger(stack.client, stack.pipeline)
	manualHandler := api.NewManualHandler(manual)

	server := api.NewServer(cfg.Server.Port, c.App.Version, cfg.Server.AllowedOrigins,
		handler.HandleGitHub, manualHandler, statusInfo{
			backend:  stack.backend.Name(),
			maxFiles: cfg.Review.MaxFilesToReview,
			maxLines: cfg.Review.MaxLinesPerFile,
		})

	log.Info().
		Int("port", cfg.Server.Port).
		Str("backend", stack.backend.Name()).
		Msg("starting reviewloop")

	return server.Start()
}
