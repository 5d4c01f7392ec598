package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamebay/tournament-engine/brackets"
	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/repositories"
	"github.com/gamebay/tournament-engine/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func intURLParam(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

func uuidURLParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

// mapServiceErrorToHTTP translates service, engine and repository sentinels
// into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// not found
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBracketNotGenerated),
		errors.Is(err, engine.ErrMatchNotFound),
		errors.Is(err, engine.ErrDisputeNotFound),
		errors.Is(err, repositories.ErrPayoutNotFound),
		errors.Is(err, repositories.ErrDisputeNotFound):
		notFoundResponse(w, r)

	// conflicts
	case errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, services.ErrBracketAlreadyGenerated),
		errors.Is(err, services.ErrTournamentFull),
		errors.Is(err, services.ErrPaymentAlreadyConfirmed),
		errors.Is(err, engine.ErrDisputeAlreadyOpen),
		errors.Is(err, engine.ErrDisputeNotOpen),
		errors.Is(err, repositories.ErrParticipantConflict),
		errors.Is(err, repositories.ErrTournamentNameConflict),
		errors.Is(err, repositories.ErrPayoutNotPending):
		conflictResponse(w, r, err.Error())

	// business rule violations
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatusTransition),
		errors.Is(err, services.ErrRegistrationNotClosed),
		errors.Is(err, services.ErrTournamentNotReadyForResult),
		errors.Is(err, services.ErrPrizeSharesExceedPool),
		errors.Is(err, brackets.ErrInvalidRosterSize),
		errors.Is(err, brackets.ErrUnsupportedFormat),
		errors.Is(err, brackets.ErrRosterNotConfirmed),
		errors.Is(err, engine.ErrScoreTie),
		errors.Is(err, engine.ErrEvidenceRequired),
		errors.Is(err, engine.ErrInvalidOutcome),
		errors.Is(err, engine.ErrInvalidBeneficiary):
		badRequestResponse(w, r, err)

	// state machine rejections
	case errors.Is(err, engine.ErrMatchNotJoinable),
		errors.Is(err, engine.ErrMatchNotStartable),
		errors.Is(err, engine.ErrMatchNotDisputable),
		errors.Is(err, engine.ErrMatchVoided):
		unprocessableResponse(w, r, err)

	// auth
	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotTournamentParticipant),
		errors.Is(err, engine.ErrNotMatchParticipant),
		errors.Is(err, services.ErrRegistrationClosed),
		errors.Is(err, services.ErrRosterLocked):
		forbiddenResponse(w, r, err.Error())

	// integrity violations are bugs or replays; surface as 500 with logging
	default:
		serverErrorResponse(w, r, err)
	}
}
