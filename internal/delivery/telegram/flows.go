package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/service"
)

// answerSession feeds one free-text answer into the in-progress quiz session.
func (h *Handler) answerSession(ctx context.Context, userID, chatID int64, text string) {
	result, err := h.driver.Answer(ctx, userID, text)
	if err != nil {
		if errors.Is(err, service.ErrNothingToResume) {
			h.send(newPlainMessage(chatID, msgNothingToContinue))
			return
		}
		h.logger.Error("failed to answer session", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.renderAnswerResult(chatID, result)
}

// renderAnswerResult shows the verdict for one answered question, then the
// next question or the final score.
func (h *Handler) renderAnswerResult(chatID int64, result *service.AnswerResult) {
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

func (h *Handler) runDictionarySearch(ctx context.Context, userID, chatID int64, query string) {
	items, err := h.dictionary.Search(ctx, userID, query)
	if err != nil {
		if errors.Is(err, service.ErrEmptyDictionaryInput) {
			h.send(newPlainMessage(chatID, msgAskSearchQuery))
			return
		}
		h.logger.Error("dictionary search failed", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	if len(items) == 0 {
		h.send(newPlainMessage(chatID, msgNothingFound))
		return
	}

	// One message per hit so each can carry its own favorite button.
	for _, item := range items {
		msg := newPlainMessage(chatID, formatVocabularyItem(item))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(btnFavorite, buildFavoriteCallback(item.ID)),
			),
		)
		h.send(msg)
	}
}

func (h *Handler) runDictionaryAdd(ctx context.Context, userID, chatID int64, payload *entities.DictionaryAddPayload, text string) {
	entry, err := h.dictionary.AddStep(ctx, userID, payload, text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyDictionaryInput) {
			if payload.Word == "" {
				h.send(newPlainMessage(chatID, msgAskCustomWord))
			} else {
				h.send(newPlainMessage(chatID, msgAskTranslation))
			}
			return
		}
		h.logger.Error("failed to add dictionary entry", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	if entry == nil {
		h.send(newPlainMessage(chatID, msgAskTranslation))
		return
	}

	h.send(newPlainMessage(chatID, msgEntryAdded(entry)))
}

// answerHomework handles a free-text homework answer.
func (h *Handler) answerHomework(ctx context.Context, userID, chatID int64, text string) {
	result, err := h.homework.Answer(ctx, userID, text)
	if err != nil {
		if errors.Is(err, service.ErrNoHomeworkAttempt) || errors.Is(err, service.ErrHomeworkQuestionGone) {
			if _, clearErr := h.flows.Abandon(ctx, userID); clearErr != nil {
				h.logger.Error("failed to clear flow state", zap.Int64("user_id", userID), zap.Error(clearErr))
			}
			h.send(newPlainMessage(chatID, msgNothingToContinue))
			return
		}
		h.logger.Error("failed to answer homework", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.renderHomeworkResult(ctx, userID, chatID, result)
}

// renderHomeworkResult shows the next homework question or the graded
// submission once the attempt is submitted.
func (h *Handler) renderHomeworkResult(ctx context.Context, userID, chatID int64, result *service.HomeworkAnswerResult) {
	if result.Submission != nil {
		if _, err := h.flows.Abandon(ctx, userID); err != nil {
			h.logger.Error("failed to clear flow state", zap.Int64("user_id", userID), zap.Error(err))
		}
		h.send(newPlainMessage(chatID, msgHomeworkDone(result.Submission)))
		return
	}

	h.showHomeworkQuestion(ctx, userID, chatID, result.Next)
}

// forwardSupportMessage relays the user's message to the support chat.
func (h *Handler) forwardSupportMessage(ctx context.Context, userID, chatID int64, msg *tgbotapi.Message) {
	if _, err := h.flows.Abandon(ctx, userID); err != nil {
		h.logger.Error("failed to clear flow state", zap.Int64("user_id", userID), zap.Error(err))
	}

	if h.supportChatID == 0 {
		h.logger.Warn("support chat is not configured", zap.Int64("user_id", userID))
		h.sendError(chatID, msgInternalError)
		return
	}

	h.send(tgbotapi.NewForward(h.supportChatID, chatID, msg.MessageID))
	h.send(newPlainMessage(chatID, msgSupportForwarded))
}
