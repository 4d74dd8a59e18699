package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/askarbek/lingua-tutor-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		h.answerCallback(cq.ID, "")
		return
	}

	data := decodeCallback(cq.Data)

	switch data.Action {
	case actionAnswer:
		h.handleAnswerCallback(ctx, cq, data)

	case actionHomework:
		h.handleHomeworkCallback(ctx, cq, data)

	case actionReview:
		h.handleReviewCallback(ctx, cq, data)

	case actionFavorite:
		h.handleFavoriteCallback(ctx, cq, data)

	case actionReset:
		h.handleResetCallback(ctx, cq, data)

	default:
		h.logger.Warn("unknown callback action", zap.String("data", cq.Data))
		h.answerCallback(cq.ID, "")
	}
}

// handleAnswerCallback resolves an option tap against the stored session.
// The callback carries the option index; the option text is looked up from
// the current question so stale taps on an old message cannot answer a newer
// one with the wrong text.
func (h *Handler) handleAnswerCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, data callbackData) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	question, err := h.driver.CurrentQuestion(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToResume) {
			h.answerCallback(cq.ID, msgSessionExpired)
			return
		}
		h.logger.Error("failed to resume session", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, msgInternalError)
		return
	}

	option, ok := optionByIndex(question.Options, data.Params)
	if !ok {
		h.answerCallback(cq.ID, msgSessionExpired)
		return
	}

	result, err := h.driver.Answer(ctx, userID, option)
	if err != nil {
		h.logger.Error("failed to answer session", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, msgInternalError)
		return
	}

	h.answerCallback(cq.ID, "")

	// Replace the keyboard with the picked answer so the question cannot be
	// answered twice from the same message.
	h.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, question.Prompt+"\n\n"+option))

	if result.Correct {
		h.send(newPlainMessage(chatID, msgCorrect))
	} else {
		h.send(newPlainMessage(chatID, msgIncorrect(result.CorrectAnswer)))
	}

	if result.Done {
		h.send(newPlainMessage(chatID, msgSessionDone(result.Score, result.Total)))
		return
	}

	h.send(renderQuestion(chatID, result.Next))
}

// handleHomeworkCallback resolves an option tap on a homework question.
// Wrong taps keep the question on screen; right ones advance it in place.
func (h *Handler) handleHomeworkCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, data callbackData) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	question, err := h.homework.CurrentQuestion(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoHomeworkAttempt) || errors.Is(err, service.ErrHomeworkQuestionGone) {
			h.answerCallback(cq.ID, msgSessionExpired)
			return
		}
		h.logger.Error("failed to resume homework", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, msgInternalError)
		return
	}

	option, ok := optionByIndex(question.Options, data.Params)
	if !ok {
		h.answerCallback(cq.ID, msgSessionExpired)
		return
	}

	result, err := h.homework.Answer(ctx, userID, option)
	if err != nil {
		h.logger.Error("failed to answer homework", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, msgInternalError)
		return
	}

	if result.Submission == nil && !result.Correct && result.Next.ID == question.ID {
		h.answerCallback(cq.ID, msgHomeworkTryAgain)
		return
	}

	h.answerCallback(cq.ID, "")

	if result.Submission != nil {
		if _, err := h.flows.Abandon(ctx, userID); err != nil {
			h.logger.Error("failed to clear flow state", zap.Int64("user_id", userID), zap.Error(err))
		}
		h.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, msgHomeworkDone(result.Submission)))
		return
	}

	h.send(editHomeworkQuestion(chatID, cq.Message.MessageID, result.Next))
	h.progress.SetQuestionMessage(userID, chatID, cq.Message.MessageID)
	h.syncHomeworkFlow(ctx, userID, result.Next)
}

// handleReviewCallback starts a review session from the size keyboard.
func (h *Handler) handleReviewCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, data callbackData) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	if len(data.Params) == 0 {
		h.answerCallback(cq.ID, "")
		return
	}

	difficulty, ok := parseDifficulty(data.Params[0])
	if !ok {
		h.answerCallback(cq.ID, "")
		return
	}

	h.answerCallback(cq.ID, "")
	h.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, msgPickDifficulty))

	h.startReviewSession(ctx, userID, chatID, difficulty)
}

// handleFavoriteCallback toggles the favorite mark on a vocabulary item.
func (h *Handler) handleFavoriteCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, data callbackData) {
	userID := cq.From.ID

	if len(data.Params) == 0 {
		h.answerCallback(cq.ID, "")
		return
	}

	vocabularyID, err := strconv.ParseInt(data.Params[0], 10, 64)
	if err != nil {
		h.answerCallback(cq.ID, "")
		return
	}

	marked, err := h.favorites.Toggle(ctx, userID, vocabularyID)
	if err != nil {
		h.logger.Error("failed to toggle favorite",
			zap.Int64("user_id", userID),
			zap.Int64("vocabulary_id", vocabularyID),
			zap.Error(err),
		)
		h.answerCallback(cq.ID, msgInternalError)
		return
	}

	if marked {
		h.answerCallback(cq.ID, msgFavoriteAdded)
	} else {
		h.answerCallback(cq.ID, msgFavoriteRemoved)
	}
}

// handleResetCallback erases the user's learning data once confirmed.
func (h *Handler) handleResetCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, data callbackData) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	if len(data.Params) == 0 || data.Params[0] != "yes" {
		h.answerCallback(cq.ID, "")
		h.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, msgResetCancelled))
		return
	}

	if err := h.userService.EraseUserData(ctx, userID); err != nil {
		h.logger.Error("failed to erase user data", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, msgInternalError)
		return
	}
	h.homework.Abandon(userID)

	h.answerCallback(cq.ID, "")
	h.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, msgDataErased))
}

func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Error("failed to answer callback", zap.Error(err))
	}
}

func optionByIndex(options []string, params []string) (string, bool) {
	if len(params) == 0 {
		return "", false
	}
	idx, err := strconv.Atoi(params[0])
	if err != nil || idx < 0 || idx >= len(options) {
		return "", false
	}
	return options[idx], true
}
