package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"memory-companion-go/internal/actionable"
	"memory-companion-go/internal/aggregator"
	"memory-companion-go/internal/dataset"
	"memory-companion-go/internal/pipeline"
	"memory-companion-go/internal/types"
)

const defaultProcessTimeout = 40 * time.Second

// handleSession analyses a posted session record synchronously.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "session")
	var rec types.SessionRecord
	if err := decode(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	rep, err := s.proc.ProcessRecording(r.Context(), rec)
	status := http.StatusOK
	if err != nil {
		reqLog.WithError(err).Warn("session processing failed")
		status = http.StatusBadGateway
	}
	writeJSON(w, status, rep, reqLog)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "process")
	reqLog.Info("process request received")

	q := r.URL.Query()
	audioURL := q.Get("audio_url")
	if audioURL == "" {
		reqLog.Warn("missing audio_url")
		writeError(w, http.StatusBadRequest, "missing audio_url", reqLog)
		return
	}
	timeout := defaultProcessTimeout
	if t := q.Get("timeout_sec"); t != "" {
		sec, err := strconv.Atoi(t)
		if err != nil || sec <= 0 {
			writeError(w, http.StatusBadRequest, "timeout_sec must be a positive integer", reqLog)
			return
		}
		timeout = time.Duration(sec) * time.Second
	}
	reqLog = reqLog.WithField("audio_url", audioURL).WithField("timeout", timeout.String())

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	start := time.Now()
	rep, err := s.proc.ProcessRecording(ctx, types.SessionRecord{
		SessionID: q.Get("session_id"),
		Chapter:   q.Get("chapter"),
		AudioURL:  audioURL,
	})
	reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("processor finished")
	status := http.StatusOK
	if err != nil {
		reqLog.WithError(err).Warn("processor returned error")
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, rep, reqLog)
}

func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "dataset")
	if s.summary == nil {
		writeError(w, http.StatusNotFound, "no dataset summary loaded", reqLog)
		return
	}
	writeJSON(w, http.StatusOK, s.summary, reqLog)
}

// loadRecords reads the configured workbook, truncated to limit when limit
// is positive.
func (s *Server) loadRecords(limit int) ([]types.SessionRecord, error) {
	records, err := dataset.Load(s.datasetPath)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "demo")
	reqLog.Info("demo invoked")
	records, err := s.loadRecords(demoLimit)
	if err != nil {
		reqLog.WithError(err).Error("dataset load error")
		writeError(w, http.StatusInternalServerError, "dataset load error", reqLog)
		return
	}
	reports, err := pipeline.Run(r.Context(), s.proc, records, s.pipeline)
	if err != nil {
		reqLog.WithError(err).Warn("demo run interrupted")
		writeError(w, http.StatusServiceUnavailable, err.Error(), reqLog)
		return
	}
	writeJSON(w, http.StatusOK, reports, reqLog)
}

type insightsResponse struct {
	Insight aggregator.Insight      `json:"insight"`
	Actions []actionable.ActionCard `json:"actions"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "insights")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", reqLog)
			return
		}
		limit = n
	}
	records, err := s.loadRecords(limit)
	if err != nil {
		reqLog.WithError(err).Error("dataset load error")
		writeError(w, http.StatusInternalServerError, "dataset load error", reqLog)
		return
	}
	reports, err := pipeline.Run(r.Context(), s.proc, records, s.pipeline)
	if err != nil {
		reqLog.WithError(err).Warn("insights run interrupted")
		writeError(w, http.StatusServiceUnavailable, err.Error(), reqLog)
		return
	}
	ins := aggregator.Aggregate(reports)
	reqLog.WithField("sessions", ins.Sessions).WithField("failed", ins.Failed).Info("insights computed")
	writeJSON(w, http.StatusOK, insightsResponse{Insight: ins, Actions: actionable.Generate(ins)}, reqLog)
}
