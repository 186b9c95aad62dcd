/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package debugserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/ratelimit"
)

// errorDomain is reported in all error responses of the debug server.
const errorDomain = "SyncKit"

// responseError has the same shape as errors of the other Nautilus One REST APIs.
type responseError struct {
	Domain  string `json:"domain"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error responseError `json:"error"`
}

func respondJSON(rw http.ResponseWriter, status int, v interface{}, logger log.FieldLogger) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logger.Error("error while writing response body", log.Error(err))
	}
}

func respondNotFound(rw http.ResponseWriter, message string, logger log.FieldLogger) {
	respondJSON(rw, http.StatusNotFound, errorResponse{
		Error: responseError{Domain: errorDomain, Code: "notFound", Message: message},
	}, logger)
}

type rateLimitHandler struct {
	limiter ratelimit.StatsProvider
	logger  log.FieldLogger
}

func (h *rateLimitHandler) getStats(rw http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	stats, ok := h.limiter.GetStats(key)
	if !ok {
		respondNotFound(rw, "Key is not tracked.", h.logger)
		return
	}
	respondJSON(rw, http.StatusOK, stats, h.logger)
}

func (h *rateLimitHandler) reset(rw http.ResponseWriter, _ *http.Request) {
	h.limiter.Reset()
	h.logger.Info("rate limiter state was reset via debug server")
	rw.WriteHeader(http.StatusNoContent)
}

type integrityHandler struct {
	checker IntegrityInspector
	logger  log.FieldLogger
}

func (h *integrityHandler) getStats(rw http.ResponseWriter, _ *http.Request) {
	respondJSON(rw, http.StatusOK, h.checker.Stats(), h.logger)
}

func (h *integrityHandler) listPending(rw http.ResponseWriter, _ *http.Request) {
	respondJSON(rw, http.StatusOK, nonNil(h.checker.PendingChecks()), h.logger)
}

func (h *integrityHandler) listFailed(rw http.ResponseWriter, _ *http.Request) {
	respondJSON(rw, http.StatusOK, nonNil(h.checker.FailedChecks()), h.logger)
}

func (h *integrityHandler) getCheck(rw http.ResponseWriter, r *http.Request) {
	check, ok := h.checker.Get(chi.URLParam(r, "id"))
	if !ok {
		respondNotFound(rw, "Integrity check not found.", h.logger)
		return
	}
	respondJSON(rw, http.StatusOK, check, h.logger)
}

func nonNil(checks []integrity.Check) []integrity.Check {
	if checks == nil {
		return []integrity.Check{}
	}
	return checks
}
