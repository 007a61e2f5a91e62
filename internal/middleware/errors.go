package middleware

import (
	"net/http"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/gin-gonic/gin"
)

// StatusForError maps an error kind to its HTTP status. Unknown errors are
// treated as storage failures.
func StatusForError(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindSameAccount:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInsufficientFunds, apperr.KindInvalidRecipient, apperr.KindBalanceLimit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes {"message", "code"} with the mapped status.
func RespondWithAppError(c *gin.Context, err error) {
	c.JSON(StatusForError(err), gin.H{
		"message": apperr.MessageOf(err),
		"code":    string(apperr.KindOf(err)),
	})
}
