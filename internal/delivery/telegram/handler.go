package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/askarbek/lingua-tutor-bot/internal/service"
	"github.com/askarbek/lingua-tutor-bot/internal/storage"
)

const defaultLearnWordCount = 5

type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger

	userService *service.UserService
	builder     *service.SessionBuilder
	driver      *service.SessionDriver
	scheduler   *service.Scheduler
	flows       *service.FlowService
	homework    *service.HomeworkService
	dictionary  *service.DictionaryService
	favorites   *service.FavoriteService
	progress    *storage.HomeworkProgress

	supportChatID int64
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService *service.UserService,
	builder *service.SessionBuilder,
	driver *service.SessionDriver,
	scheduler *service.Scheduler,
	flows *service.FlowService,
	homework *service.HomeworkService,
	dictionary *service.DictionaryService,
	favorites *service.FavoriteService,
	progress *storage.HomeworkProgress,
	supportChatID int64,
) *Handler {
	return &Handler{
		bot:           bot,
		logger:        logger,
		userService:   userService,
		builder:       builder,
		driver:        driver,
		scheduler:     scheduler,
		flows:         flows,
		homework:      homework,
		dictionary:    dictionary,
		favorites:     favorites,
		progress:      progress,
		supportChatID: supportChatID,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	h.handleText(ctx, update.Message)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	// Any command interrupts whatever interaction was in progress.
	if _, err := h.flows.Abandon(ctx, userID); err != nil {
		h.logger.Error("failed to abandon flow", zap.Int64("user_id", userID), zap.Error(err))
	}
	h.homework.Abandon(userID)

	switch msg.Command() {
	case "start":
		h.send(newPlainMessage(chatID, msgWelcome))

	case "learn":
		h.startLearn(ctx, userID, chatID)

	case "review":
		h.startReview(ctx, userID, chatID, msg.CommandArguments())

	case "exercise":
		h.startExercise(ctx, userID, chatID)

	case "homework":
		h.startHomework(ctx, userID, chatID)

	case "find":
		h.startDictionarySearch(ctx, userID, chatID)

	case "add":
		h.startDictionaryAdd(ctx, userID, chatID)

	case "words":
		h.showDictionary(ctx, userID, chatID)

	case "support":
		h.startSupport(ctx, userID, chatID)

	case "reset":
		h.askResetConfirmation(chatID)

	case "cancel":
		h.send(newPlainMessage(chatID, msgCancelled))

	case "help":
		h.send(newPlainMessage(chatID, msgHelp))

	default:
		h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

// handleText routes a free-text message to the interaction the user is
// inside, dispatching on the decoded flow state.
func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	flow, err := h.flows.Resume(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToResume) {
			h.send(newPlainMessage(chatID, msgNothingToContinue))
			return
		}
		h.logger.Error("failed to resume flow", zap.Int64("user_id", userID), zap.Error(err))
		h.send(newPlainMessage(chatID, msgInternalError))
		return
	}

	switch {
	case flow.Session != nil:
		h.answerSession(ctx, userID, chatID, text)

	case flow.DictionarySearch != nil:
		h.runDictionarySearch(ctx, userID, chatID, text)

	case flow.DictionaryAdd != nil:
		h.runDictionaryAdd(ctx, userID, chatID, flow.DictionaryAdd, text)

	case flow.HomeworkAnswer != nil:
		h.answerHomework(ctx, userID, chatID, text)

	case flow.Support != nil:
		h.forwardSupportMessage(ctx, userID, chatID, msg)

	default:
		h.send(newPlainMessage(chatID, msgNothingToContinue))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// sendReturning sends a message and returns it, so the caller can remember
// its id for in-place edits.
func (h *Handler) sendReturning(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return tgbotapi.Message{}, false
	}
	return sent, true
}
