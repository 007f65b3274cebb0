package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/bot"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/cache"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/config"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/getgems"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/http_api"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/marketplace"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/normalizer"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/repository"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/tonapi"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/toncenter"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/transaction"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
)

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "port", Aliases: []string{"l"}, Usage: "HTTP API port"},
		&cli.StringFlag{Name: "cors-origin", Usage: "Allowed browser origin"},
		&cli.StringFlag{Name: "collection-address", Aliases: []string{"c"}, Usage: "Collection listed by the marketplace"},
		&cli.StringFlag{Name: "tonapi-key", Usage: "TON API key"},
		&cli.StringFlag{Name: "toncenter-api-key", Usage: "TON Center API key"},
		&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
		&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
		&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host, empty keeps purchases in memory"},
		&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
		&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
		&cli.StringFlag{Name: "telegram-bot-token", Usage: "Telegram bot token, empty disables the bot"},
		&cli.StringFlag{Name: "webapp-url", Usage: "Frontend URL opened by the bot"},
		&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
	}
}

func main() {
	app := &cli.App{
		Name:  "marketplace",
		Usage: "TON NFT marketplace backend",
		Flags: serveFlags(),
		Action: func(c *cli.Context) error {
			return run(c)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API and the Telegram bot",
				Flags: serveFlags(),
				Action: func(c *cli.Context) error {
					return run(c)
				},
			},
			checkCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override with flags if set
	if c.IsSet("port") {
		cfg.APIPort = c.Int("port")
	}
	if c.IsSet("cors-origin") {
		cfg.CORSOrigin = c.String("cors-origin")
	}
	if c.IsSet("collection-address") {
		cfg.CollectionAddress = c.String("collection-address")
	}
	if c.IsSet("tonapi-key") {
		cfg.TonAPIKey = c.String("tonapi-key")
	}
	if c.IsSet("toncenter-api-key") {
		cfg.ToncenterAPIKey = c.String("toncenter-api-key")
	}
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("telegram-bot-token") {
		cfg.TelegramBotToken = c.String("telegram-bot-token")
	}
	if c.IsSet("webapp-url") {
		cfg.WebAppURL = c.String("webapp-url")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	var repo models.Repository
	if cfg.UsePostgres() {
		repo, err = repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	} else {
		log.Warn("POSTGRES_HOST is empty, purchase history is kept in memory")
		repo = repository.NewMemoryDB()
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close repository", "error", err)
		}
	}()

	// Initialize provider clients, each with its own rate limiter
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(cfg.ProviderRateLimit), cfg.ProviderRateBurst)
	}
	getgemsClient := getgems.NewClient(cfg.GetgemsURL,
		getgems.WithTimeout(cfg.ProviderTimeout),
		getgems.WithRateLimiter(newLimiter()),
	)
	tonapiClient := tonapi.NewClient(cfg.TonAPIURL,
		tonapi.WithTimeout(cfg.ProviderTimeout),
		tonapi.WithAPIKey(cfg.TonAPIKey),
		tonapi.WithRateLimiter(newLimiter()),
	)
	toncenterClient := toncenter.NewClient(cfg.ToncenterURL,
		toncenter.WithTimeout(cfg.BalanceTimeout),
		toncenter.WithAPIKey(cfg.ToncenterAPIKey),
		toncenter.WithRateLimiter(newLimiter()),
	)

	norm := normalizer.New(normalizer.Config{
		CollectionAddress: cfg.CollectionAddress,
		MarketplaceURL:    cfg.GetgemsOrigin,
		IPFSGateway:       cfg.IPFSGateway,
		PlaceholderImage:  cfg.PlaceholderImage,
	})

	appMetrics := metrics.New()

	// Create the marketplace aggregator
	market := marketplace.NewMarketplace(
		cfg.CollectionAddress,
		getgemsClient,
		tonapiClient,
		toncenterClient,
		norm,
		cache.New[models.Balance](cfg.CacheTTL, cache.SystemClock),
		appMetrics,
		log.With("component", "marketplace"),
	)

	transactions := transaction.NewService(repo, log.With("component", "transaction"),
		transaction.WithDelay(cfg.SimulationDelay),
		transaction.WithSuccessRate(cfg.SimulationSuccessRate),
		transaction.WithCatalog(market),
		transaction.WithMetrics(appMetrics),
	)

	apiServer := http_api.NewHTTPServer(market, transactions, http_api.Options{
		Port:        cfg.APIPort,
		CORSOrigin:  cfg.CORSOrigin,
		Development: cfg.Development,
		Metrics:     appMetrics,
	}, log)

	var telegramBot *bot.Bot
	if cfg.TelegramBotToken != "" {
		telegramBot, err = bot.New(log.With("component", "bot"), cfg.TelegramBotToken, cfg.WebAppURL, market)
		if err != nil {
			return err
		}
	} else {
		log.Info("TELEGRAM_BOT_TOKEN is empty, bot disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		return apiServer.Shutdown()
	})
	if telegramBot != nil {
		g.Go(func() error {
			if err := telegramBot.Setup(gctx); err != nil {
				log.Warn("Bot setup failed, continuing with polling", "error", err)
			}
			telegramBot.Start(gctx)
			return nil
		})
	}

	log.Info("Marketplace backend started", "port", cfg.APIPort, "collection", cfg.CollectionAddress)
	return g.Wait()
}
