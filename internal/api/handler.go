// Package api exposes team selection as an AWS Lambda function URL.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// Handler answers selection requests. The request body is a roster document
// as accepted by roster.Decode; the response is a selection.Report.
type Handler struct {
	selector *selection.Selector
	logger   *logging.Logger
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(selector *selection.Selector, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Handler{selector: selector, logger: logger}
}

// Handle processes one function URL invocation.
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if m := event.RequestContext.HTTP.Method; m != "" && m != http.MethodPost {
		return errResp(http.StatusMethodNotAllowed, "use POST with a roster body")
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	players, err := roster.Decode([]byte(body))
	if err != nil {
		return errResp(http.StatusBadRequest, "invalid roster: "+err.Error())
	}

	res, err := h.selector.Select(ctx, players)
	if err != nil {
		return h.selectionError(err)
	}

	h.logger.Info("selection served",
		"players", len(players),
		"official", res.Score.Official,
		"fallback", res.Fallback,
	)
	respJSON, err := json.Marshal(selection.NewReport(res))
	if err != nil {
		return errResp(http.StatusInternalServerError, "failed to encode report")
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func (h *Handler) selectionError(err error) (events.LambdaFunctionURLResponse, error) {
	switch {
	case errors.IsUserFacing(err):
		return errResp(http.StatusUnprocessableEntity, errors.UserMessage(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.Warn("selection interrupted", "error", err.Error())
		return errResp(http.StatusServiceUnavailable, "selection interrupted")
	default:
		h.logger.Error("selection failed", "error", err.Error())
		return errResp(http.StatusInternalServerError, "selection failed")
	}
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
