// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

const (
	msgWelcome = "Hi! I'll help you learn new words.\n\n" +
		"/learn — learn new words\n" +
		"/review — review what you've seen\n" +
		"/exercise — warm up on the current lesson\n" +
		"/homework — do the lesson homework\n" +
		"/find — search the dictionary\n" +
		"/add — add your own word\n" +
		"/cancel — stop the current activity"

	msgHelp = "Commands:\n\n" +
		"/learn — learn new words\n" +
		"/review — review session (pick a size)\n" +
		"/exercise — lesson warm-up quiz\n" +
		"/homework — lesson homework\n" +
		"/find — search the dictionary\n" +
		"/add — add a word to your dictionary\n" +
		"/words — your personal dictionary\n" +
		"/support — message the team\n" +
		"/reset — erase your learning data\n" +
		"/cancel — stop the current activity"

	msgUnknownCommand    = "Unknown command. Try /help."
	msgInternalError     = "Something went wrong. Please try again later."
	msgNothingToContinue = "Nothing to continue. Start with /learn, /review or /homework."
	msgCancelled         = "Okay, stopped. What next? /learn, /review or /homework."

	msgNothingToLearn   = "No new words for now — everything in your lessons is already in review."
	msgNothingToReview  = "Nothing to review yet. Learn some words first with /learn."
	msgNoExercise       = "Your current lesson has no vocabulary to practice."
	msgNoHomework       = "Your current lesson has no homework."
	msgHomeworkTryAgain = "Not quite — try again."

	msgAskSearchQuery  = "What word should I look up?"
	msgAskCustomWord   = "Send the word you want to add."
	msgAskTranslation  = "Now send its translation."
	msgNothingFound    = "Nothing found for your query."
	msgEmptyDictionary = "Your personal dictionary is empty. Add words with /add."

	msgAskSupport       = "Write your message and I'll pass it to the team."
	msgSupportForwarded = "Thanks! Your message was passed along."

	msgPickDifficulty = "How many questions?"
	msgSessionExpired = "This question is no longer active."

	msgConfirmReset   = "This erases your review progress, favorites and personal dictionary. Are you sure?"
	btnResetConfirm   = "Yes, erase everything"
	btnResetCancel    = "Keep my data"
	msgResetCancelled = "Okay, nothing was erased."
	msgDataErased     = "All your learning data was erased. Start fresh with /learn."

	msgFavoriteAdded   = "Added to favorites ⭐"
	msgFavoriteRemoved = "Removed from favorites"
	btnFavorite        = "⭐ Favorite"

	msgCorrect = "✅ Correct!"
)

func msgDueCount(due int) string {
	if due == 1 {
		return "You have 1 word due for review."
	}
	return fmt.Sprintf("You have %d words due for review.", due)
}

func msgIncorrect(correctAnswer string) string {
	return fmt.Sprintf("❌ Not quite. The answer is: %s", correctAnswer)
}

func msgSessionDone(score, total int) string {
	return fmt.Sprintf("Session finished! Your score: %d of %d.", score, total)
}

func msgHomeworkDone(sub *entities.HomeworkSubmission) string {
	if sub.Passed {
		return fmt.Sprintf("Homework done: %d of %d. Perfect — the next lesson is unlocked! 🎉", sub.Score, sub.Total)
	}
	return fmt.Sprintf("Homework done: %d of %d. Get every answer right to unlock the next lesson.", sub.Score, sub.Total)
}

func formatVocabularyItem(item *entities.VocabularyItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s", item.Word, item.Translation)
	if item.Pronunciation != "" {
		fmt.Fprintf(&b, " [%s]", item.Pronunciation)
	}
	if item.Example != "" {
		fmt.Fprintf(&b, "\n%s", item.Example)
	}
	return b.String()
}

func msgEntryAdded(entry *entities.DictionaryEntry) string {
	return fmt.Sprintf("Saved: %s — %s. It will show up in your reviews.", entry.Word, entry.Translation)
}

// formatPersonalWords renders the /words listing: own entries first, then
// favorited course vocabulary.
func formatPersonalWords(entries []*entities.DictionaryEntry, favorites []*entities.VocabularyItem) string {
	var b strings.Builder

	if len(entries) > 0 {
		b.WriteString("Your words:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "\n%s — %s", e.Word, e.Translation)
		}
	}

	if len(favorites) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Favorites:\n")
		for _, item := range favorites {
			fmt.Fprintf(&b, "\n%s — %s", item.Word, item.Translation)
		}
	}

	return b.String()
}

func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
