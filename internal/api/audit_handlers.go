package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/api/presenter"
	"github.com/tokengate/tokengate/internal/core"
)

// AuditReader is implemented by auditors whose entries can be queried.
type AuditReader interface {
	GetRecent(limit int) ([]core.DecisionEntry, error)
	Find(filter func(entry core.DecisionEntry) bool, limit int) ([]core.DecisionEntry, error)
}

// handleAdminAudits processes requests to retrieve audit log entries.
func (s *Server) handleAdminAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	reader, ok := s.auditor.(AuditReader)
	if !ok {
		presenter.Error(w, r, "configured auditor does not support queries", http.StatusNotImplemented)
		return
	}

	// filters
	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterCorrelationID := q.Get("correlation_id")
	filterSubject := q.Get("subject")
	filterFingerprint := q.Get("fingerprint")

	limit := 50
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	var entries []core.DecisionEntry
	var err error

	if filterCorrelationID != "" || filterFingerprint != "" || filterSubject != "" {
		entries, err = reader.Find(func(entry core.DecisionEntry) bool {
			if filterCorrelationID != "" && entry.ID != filterCorrelationID {
				return false
			}
			if filterFingerprint != "" && entry.TokenFingerprint != filterFingerprint {
				return false
			}
			if filterSubject != "" && entry.Subject != filterSubject {
				return false
			}
			return true
		}, limit)
	} else {
		entries, err = reader.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

// handleAdminTokens processes requests to retrieve active issued tokens.
func (s *Server) handleAdminTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	tokens, err := s.tokenStore.ListActive(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve active tokens")
		presenter.Error(w, r, "failed to retrieve active tokens", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, tokens, http.StatusOK)
}
