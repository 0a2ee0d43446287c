package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/types"
)

// M names the payload fields that sit alongside the success flag.
type M map[string]any

// WriteSuccess emits {"success":true, <fields>...} with status 200.
func WriteSuccess(w http.ResponseWriter, fields M) {
	WriteSuccessStatus(w, http.StatusOK, fields)
}

// WriteSuccessStatus emits the success envelope with an explicit status.
func WriteSuccessStatus(w http.ResponseWriter, status int, fields M) {
	writeJSON(w, status, types.SuccessEnvelope{Fields: fields})
}

// WriteError maps any error to {"success":false, "error":..., "suggestion"?}
// with the status its code carries. Nothing crosses the HTTP boundary
// unhandled.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	status := meta.HTTPStatus
	if override := typed.HTTPStatus(); override != 0 {
		status = override
	}

	payload := types.ErrorEnvelope{
		Success:    false,
		Error:      msg,
		Code:       string(typed.Code()),
		Suggestion: typed.Suggestion(),
	}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
			"status":      status,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
