package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/getmockd/mockgate/pkg/httputil"
	"github.com/getmockd/mockgate/pkg/model"
)

// MaxRequestBodySize is the maximum allowed request body size (10MB).
const MaxRequestBodySize = 10 << 20

// CodeBodyTooLarge is the error code for oversized request bodies.
const CodeBodyTooLarge = "body_too_large"

// Handler translates HTTP requests into model requests, dispatches them
// through a Registry and writes the answer back.
type Handler struct {
	registry   *Registry
	log        *slog.Logger
	textBodies bool
}

// NewHandler creates an http.Handler that serves reg. Only WithLogger and
// WithTextBodies apply; other options are ignored.
func NewHandler(reg *Registry, opts ...Option) *Handler {
	o := newOptions(opts)
	return &Handler{
		registry:   reg,
		log:        o.log,
		textBodies: o.textBodies,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, CodeBodyTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.log.Debug("rejected request", "method", r.Method, "path", r.URL.Path, "error", err)
		httputil.WriteBadRequest(w, httputil.CodeBadRequest, err.Error())
		return
	}

	match, ok := h.registry.Dispatch(r.Context(), req)
	if !ok {
		httputil.WriteNotFound(w, httputil.CodeNotFound, "no handler matched "+req.String())
		return
	}

	if err := httputil.WriteBody(w, match.Body); err != nil {
		h.log.Error("failed to encode response body", "handler", match.HandlerID, "kind", match.Kind, "error", err)
		httputil.WriteInternalError(w, httputil.CodeEncode, err.Error())
	}
}

// decodeRequest maps the wire request onto the model. A JSON-declared body
// that does not parse is an error.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (model.Request, error) {
	req := model.NewRequest(model.ParseMethod(r.Method), r.URL.EscapedPath())
	if r.URL.RawQuery != "" {
		req = req.WithQueries(r.URL.RawQuery)
	}

	if r.Body == nil {
		return req, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		return req, err
	}
	if len(data) == 0 {
		return req, nil
	}

	switch {
	case isJSONContentType(r.Header.Get("Content-Type")):
		body, err := model.DecodeJSON(data)
		if err != nil {
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
		req = req.WithBody(body)
	case h.textBodies && utf8.Valid(data):
		req = req.WithBody(model.Text(string(data)))
	default:
		req = req.WithBody(model.Bytes(data))
	}
	return req, nil
}

func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

var _ http.Handler = (*Handler)(nil)

