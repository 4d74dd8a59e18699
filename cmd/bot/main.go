package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/askarbek/lingua-tutor-bot/internal/config"
	"github.com/askarbek/lingua-tutor-bot/internal/delivery/telegram"
	"github.com/askarbek/lingua-tutor-bot/internal/infra/postgres"
	"github.com/askarbek/lingua-tutor-bot/internal/logger"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
	"github.com/askarbek/lingua-tutor-bot/internal/service"
	"github.com/askarbek/lingua-tutor-bot/internal/storage"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot api", zap.Error(err))
	}
	zl.Info("authorized", zap.String("account", bot.Self.UserName))

	commands := []tgbotapi.BotCommand{
		{Command: "learn", Description: "Learn new words"},
		{Command: "review", Description: "Review what you've seen"},
		{Command: "exercise", Description: "Warm up on the current lesson"},
		{Command: "homework", Description: "Do the lesson homework"},
		{Command: "find", Description: "Search the dictionary"},
		{Command: "add", Description: "Add your own word"},
		{Command: "words", Description: "Your personal dictionary"},
		{Command: "support", Description: "Message the team"},
		{Command: "cancel", Description: "Stop the current activity"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zl.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("failed to create pool", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	vocabRepo := repository.NewVocabularyRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	favRepo := repository.NewFavoriteRepository(pool)
	dictRepo := repository.NewDictionaryRepository(pool)
	hwRepo := repository.NewHomeworkRepository(pool)
	stateRepo := repository.NewFlowStateRepository(pool)

	transactor := postgres.NewTransactor(pool)
	progress := storage.NewHomeworkProgress()

	flows := service.NewFlowService(stateRepo)
	scheduler := service.NewScheduler(cardRepo, vocabRepo, favRepo, lessonRepo)
	builder := service.NewSessionBuilder(scheduler, vocabRepo, lessonRepo, dictRepo, hwRepo, userRepo)
	driver := service.NewSessionDriver(flows, scheduler)
	userService := service.NewUserService(userRepo, transactor)
	homeworkService := service.NewHomeworkService(hwRepo, lessonRepo, userRepo, progress)
	dictionaryService := service.NewDictionaryService(vocabRepo, dictRepo, flows)
	favoriteService := service.NewFavoriteService(favRepo, vocabRepo)

	handler := telegram.NewHandler(
		bot,
		zl,
		userService,
		builder,
		driver,
		scheduler,
		flows,
		homeworkService,
		dictionaryService,
		favoriteService,
		progress,
		cfg.SupportChatID,
	)

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown complete")
}
