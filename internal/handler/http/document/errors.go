package document

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/handler/http/respond"
)

// User-facing messages for errors that carry internal detail.
const (
	msgUnsupportedFile  = "Unsupported file type. Only PDF and TXT are allowed."
	msgExtractionFailed = "Could not extract text from file."
	msgBodyTooLarge     = "request body too large"
	msgInvalidJSON      = "invalid JSON body"
)

// writeError maps a use case error to an HTTP response. Cases are tried in
// order, so a ServiceError that wraps a ValidationError is still a 500:
//
//	*entity.ServiceError             -> 500, prefixed message with secrets masked
//	*entity.ValidationError          -> 400, message only
//	entity.ErrUnsupportedContentType -> 400
//	entity.ErrExtractionFailed       -> 422
//	*http.MaxBytesError              -> 413
//	anything else                    -> 500 "internal server error"
func writeError(w http.ResponseWriter, err error) {
	var (
		ve     *entity.ValidationError
		se     *entity.ServiceError
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &se):
		respond.SafeErrorV2(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, se.Error(), err))
	case errors.As(err, &ve):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: ve.Message})
	case errors.Is(err, entity.ErrUnsupportedContentType):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: msgUnsupportedFile})
	case errors.Is(err, entity.ErrExtractionFailed):
		respond.JSON(w, http.StatusUnprocessableEntity, respond.ErrorBody{Error: msgExtractionFailed})
	case errors.As(err, &maxErr):
		respond.JSON(w, http.StatusRequestEntityTooLarge, respond.ErrorBody{Error: msgBodyTooLarge})
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// decodeJSON reads a single JSON object from r into v. A body over the route
// limit is reported as *http.MaxBytesError; any other decode failure becomes a
// 400 validation error.
func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return &entity.ValidationError{Field: "body", Message: msgInvalidJSON}
	}
	return nil
}
