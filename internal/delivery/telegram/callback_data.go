package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer   = "ans"
	actionHomework = "hw"
	actionReview   = "rev"
	actionFavorite = "fav"
	actionReset    = "rst"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback builds callback data for a session option tap.
func buildAnswerCallback(optionIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(optionIndex)},
	}.encode()
}

// buildHomeworkCallback builds callback data for a homework option tap.
func buildHomeworkCallback(optionIndex int) string {
	return callbackData{
		Action: actionHomework,
		Params: []string{strconv.Itoa(optionIndex)},
	}.encode()
}

// buildReviewCallback builds callback data for picking a review difficulty.
func buildReviewCallback(difficulty string) string {
	return callbackData{
		Action: actionReview,
		Params: []string{difficulty},
	}.encode()
}

// buildResetCallback builds callback data for the erase-my-data confirmation.
func buildResetCallback(confirm bool) string {
	param := "no"
	if confirm {
		param = "yes"
	}
	return callbackData{
		Action: actionReset,
		Params: []string{param},
	}.encode()
}

// buildFavoriteCallback builds callback data for toggling a favorite.
func buildFavoriteCallback(vocabularyID int64) string {
	return callbackData{
		Action: actionFavorite,
		Params: []string{strconv.FormatInt(vocabularyID, 10)},
	}.encode()
}
