package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/service"
)

func (h *Handler) startLearn(ctx context.Context, userID, chatID int64) {
	session, err := h.builder.BuildLearnSession(ctx, userID, defaultLearnWordCount)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			h.send(newPlainMessage(chatID, msgNothingToLearn))
			return
		}
		h.logger.Error("failed to build learn session", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.startSession(ctx, userID, chatID, entities.StateLearnNewWords, session)
}

// startReview either starts a session right away when the command carries a
// difficulty argument, or offers the size keyboard.
func (h *Handler) startReview(ctx context.Context, userID, chatID int64, args string) {
	difficulty, ok := parseDifficulty(args)
	if !ok {
		text := msgPickDifficulty
		if due, err := h.scheduler.CountDue(ctx, userID); err == nil && due > 0 {
			text = msgDueCount(due) + "\n\n" + msgPickDifficulty
		}
		msg := newPlainMessage(chatID, text)
		msg.ReplyMarkup = buildReviewDifficultyKeyboard()
		h.send(msg)
		return
	}

	h.startReviewSession(ctx, userID, chatID, difficulty)
}

func (h *Handler) startReviewSession(ctx context.Context, userID, chatID int64, difficulty service.Difficulty) {
	session, err := h.builder.BuildReviewSession(ctx, userID, difficulty)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			h.send(newPlainMessage(chatID, msgNothingToReview))
			return
		}
		h.logger.Error("failed to build review session", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.startSession(ctx, userID, chatID, entities.StateReview, session)
}

func (h *Handler) startExercise(ctx context.Context, userID, chatID int64) {
	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	session, err := h.builder.BuildLessonExercises(ctx, user.CurrentLessonID)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			h.send(newPlainMessage(chatID, msgNoExercise))
			return
		}
		h.logger.Error("failed to build exercises", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.startSession(ctx, userID, chatID, entities.StateExercise, session)
}

// startSession stores a freshly built session and shows its first question.
func (h *Handler) startSession(ctx context.Context, userID, chatID int64, tag entities.StateTag, session *entities.SessionPayload) {
	question, err := h.driver.Start(ctx, userID, tag, session)
	if err != nil {
		h.logger.Error("failed to start session",
			zap.Int64("user_id", userID),
			zap.String("state", string(tag)),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return
	}

	h.send(renderQuestion(chatID, question))
}

func (h *Handler) startHomework(ctx context.Context, userID, chatID int64) {
	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	_, question, err := h.homework.Start(ctx, userID, user.CurrentLessonID)
	if err != nil {
		if errors.Is(err, service.ErrNoHomework) {
			h.send(newPlainMessage(chatID, msgNoHomework))
			return
		}
		h.logger.Error("failed to start homework", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.showHomeworkQuestion(ctx, userID, chatID, question)
}

// showHomeworkQuestion sends a homework question, remembers its message id
// for in-place edits, and arranges for the next free-text message to be
// treated as the answer when the question has no options.
func (h *Handler) showHomeworkQuestion(ctx context.Context, userID, chatID int64, question *entities.HomeworkQuestion) {
	sent, ok := h.sendReturning(renderHomeworkQuestion(chatID, question))
	if ok {
		h.progress.SetQuestionMessage(userID, chatID, sent.MessageID)
	}

	h.syncHomeworkFlow(ctx, userID, question)
}

// syncHomeworkFlow keeps the persisted flow state in step with the homework
// attempt: free-text questions route the next message to the answer handler,
// multiple-choice questions are answered through taps only.
func (h *Handler) syncHomeworkFlow(ctx context.Context, userID int64, question *entities.HomeworkQuestion) {
	if len(question.Options) > 0 {
		if _, err := h.flows.Abandon(ctx, userID); err != nil {
			h.logger.Error("failed to clear flow state", zap.Int64("user_id", userID), zap.Error(err))
		}
		return
	}

	ptr, ok := h.progress.GetCurrentQuestion(userID)
	if !ok {
		return
	}

	err := h.flows.Begin(ctx, userID, entities.StateHomeworkAnswer, entities.HomeworkAnswerPayload{
		HomeworkID: ptr.HomeworkID,
		QuestionID: ptr.QuestionID,
	})
	if err != nil {
		h.logger.Error("failed to store homework flow state", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (h *Handler) startDictionarySearch(ctx context.Context, userID, chatID int64) {
	if err := h.dictionary.StartSearch(ctx, userID); err != nil {
		h.logger.Error("failed to start search", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}
	h.send(newPlainMessage(chatID, msgAskSearchQuery))
}

func (h *Handler) startDictionaryAdd(ctx context.Context, userID, chatID int64) {
	if err := h.dictionary.StartAdd(ctx, userID); err != nil {
		h.logger.Error("failed to start add", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}
	h.send(newPlainMessage(chatID, msgAskCustomWord))
}

// showDictionary lists the user's own entries and favorite vocabulary.
func (h *Handler) showDictionary(ctx context.Context, userID, chatID int64) {
	entries, err := h.dictionary.Entries(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load dictionary", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	favorites, err := h.favorites.List(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load favorites", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	if len(entries) == 0 && len(favorites) == 0 {
		h.send(newPlainMessage(chatID, msgEmptyDictionary))
		return
	}

	h.send(newPlainMessage(chatID, formatPersonalWords(entries, favorites)))
}

func (h *Handler) startSupport(ctx context.Context, userID, chatID int64) {
	err := h.flows.Begin(ctx, userID, entities.StateSupportMessage, entities.SupportMessagePayload{})
	if err != nil {
		h.logger.Error("failed to start support flow", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}
	h.send(newPlainMessage(chatID, msgAskSupport))
}

// askResetConfirmation double-checks before erasing the user's learning data.
func (h *Handler) askResetConfirmation(chatID int64) {
	msg := newPlainMessage(chatID, msgConfirmReset)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnResetConfirm, buildResetCallback(true)),
			tgbotapi.NewInlineKeyboardButtonData(btnResetCancel, buildResetCallback(false)),
		),
	)
	h.send(msg)
}

func parseDifficulty(args string) (service.Difficulty, bool) {
	d := service.Difficulty(strings.ToLower(strings.TrimSpace(args)))
	switch d {
	case service.DifficultyLight, service.DifficultyStandard, service.DifficultyIntense:
		return d, true
	}
	return "", false
}
