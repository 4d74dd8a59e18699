package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

// buildOptionsKeyboard lays answer options out two per row. The callback
// carries the option index, not its text, to stay within Telegram's 64-byte
// callback data limit.
func buildOptionsKeyboard(options []string, build func(int) string) *tgbotapi.InlineKeyboardMarkup {
	if len(options) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, option := range options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(option, build(i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// renderQuestion builds the message for a session question: multiple choice
// gets an option keyboard, free text just asks for a reply.
func renderQuestion(chatID int64, q *entities.Question) tgbotapi.MessageConfig {
	msg := newPlainMessage(chatID, q.Prompt)
	if q.MultipleChoice() {
		msg.ReplyMarkup = buildOptionsKeyboard(q.Options, buildAnswerCallback)
	}
	return msg
}

// renderHomeworkQuestion builds the message for a homework question.
func renderHomeworkQuestion(chatID int64, q *entities.HomeworkQuestion) tgbotapi.MessageConfig {
	msg := newPlainMessage(chatID, q.Text)
	if len(q.Options) > 0 {
		msg.ReplyMarkup = buildOptionsKeyboard(q.Options, buildHomeworkCallback)
	}
	return msg
}

// editHomeworkQuestion replaces the previous homework message in place.
func editHomeworkQuestion(chatID int64, messageID int, q *entities.HomeworkQuestion) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, q.Text)
	if len(q.Options) > 0 {
		edit.ReplyMarkup = buildOptionsKeyboard(q.Options, buildHomeworkCallback)
	}
	return edit
}

// buildReviewDifficultyKeyboard offers the three review session sizes.
func buildReviewDifficultyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("10 questions", buildReviewCallback("light")),
			tgbotapi.NewInlineKeyboardButtonData("20 questions", buildReviewCallback("standard")),
			tgbotapi.NewInlineKeyboardButtonData("30 questions", buildReviewCallback("intense")),
		),
	)
}
