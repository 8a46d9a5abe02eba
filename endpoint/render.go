package endpoint

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/observe"
)

// ContentType is the media type of rendered status bodies.
const ContentType = "application/json"

// Response is a rendered transport outcome.
type Response struct {
	// Code is the HTTP status code.
	Code int

	// Body is the JSON encoded status. Empty for 404.
	Body []byte
}

// NotFound is the outcome for absent results and rejected callers.
func NotFound() Response {
	return Response{Code: http.StatusNotFound}
}

// Render maps an optional status to a transport outcome.
//
// An up status renders 200 and a down status renders 503, both with the
// status as body. Before rendering a down status, Render logs it at warning
// level. Logging and encoding failures never change the outcome: a body
// that cannot be encoded is replaced by the encoding of status.Summary().
func Render(ctx context.Context, logger observe.Logger, status health.Status, ok bool) Response {
	if !ok {
		return NotFound()
	}

	body, err := json.Marshal(status)

	code := http.StatusOK
	if !status.Up() {
		code = http.StatusServiceUnavailable
		logDown(ctx, logger, body, err)
	}

	if err != nil {
		body, _ = json.Marshal(status.Summary())
	}
	return Response{Code: code, Body: body}
}

func logDown(ctx context.Context, logger observe.Logger, data []byte, err error) {
	if logger == nil {
		return
	}
	defer func() {
		// A misbehaving logger must not affect the response.
		_ = recover()
	}()

	if err != nil {
		logger.Warn(ctx, "health check is down; status could not be serialized",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return
	}
	logger.Warn(ctx, "health check is down",
		observe.Field{Key: "status", Value: json.RawMessage(data)},
	)
}

// Write writes r to w.
func (r Response) Write(w http.ResponseWriter) {
	if len(r.Body) == 0 {
		w.WriteHeader(r.Code)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(r.Code)
	_, _ = w.Write(r.Body)
}
