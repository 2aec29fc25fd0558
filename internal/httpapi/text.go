package httpapi

import (
	"net/http"
	"time"

	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/punctuation"
	"memory-companion-go/internal/speech"
	"memory-companion-go/internal/types"
)

type textRequest struct {
	Text string `json:"text"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (s *Server) handlePunctuate(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "punctuate")
	var req textRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: punctuation.Punctuate(req.Text)}, reqLog)
}

type mergeRequest struct {
	Final    string `json:"final"`
	Interim  string `json:"interim"`
	Existing string `json:"existing"`
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "merge")
	var req mergeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	merged := punctuation.MergeSpeechResult(req.Final, req.Interim, req.Existing)
	writeJSON(w, http.StatusOK, textResponse{Text: merged}, reqLog)
}

type analyzeRequest struct {
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "analyze")
	var req analyzeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	start := time.Now()
	res := s.analyzer.Analyze(req.Transcript, req.DurationSeconds)
	s.metrics.AnalysisDuration.Record(r.Context(), time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, res, reqLog)
}

type complexityResponse struct {
	Score   float64 `json:"score"`
	Fluency float64 `json:"fluency"`
}

func (s *Server) handleComplexity(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "complexity")
	var m types.SpeechMetrics
	if err := decode(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	writeJSON(w, http.StatusOK, complexityResponse{
		Score:   speech.ScoreComplexity(m),
		Fluency: speech.Fluency(m),
	}, reqLog)
}

type matchRequest struct {
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

type matchResponse struct {
	Matched bool   `json:"matched"`
	Stage   string `json:"stage"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "match")
	var req matchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	ok, stage := s.matcher.Explain(req.UserAnswer, req.CorrectAnswer)
	s.metrics.RecordAnswer(r.Context(), ok)
	reqLog.WithField("matched", ok).WithField("stage", stage.String()).Debug("answer graded")
	writeJSON(w, http.StatusOK, matchResponse{Matched: ok, Stage: stage.String()}, reqLog)
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "dates")
	var req textRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	dates := narrative.ExtractDates(req.Text)
	if dates == nil {
		dates = []types.ExtractedDate{}
	}
	writeJSON(w, http.StatusOK, dates, reqLog)
}

type undatedResponse struct {
	Undated bool `json:"undated"`
}

func (s *Server) handleUndated(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "undated")
	var req textRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	writeJSON(w, http.StatusOK, undatedResponse{Undated: narrative.HasUndatedEvent(req.Text)}, reqLog)
}

type parseDateRequest struct {
	Input string `json:"input"`
}

type parseDateResponse struct {
	Date *time.Time `json:"date"`
}

func (s *Server) handleParseDate(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "parse-date")
	var req parseDateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	var resp parseDateResponse
	if d, ok := narrative.ParseUserDate(req.Input); ok {
		resp.Date = &d
	}
	writeJSON(w, http.StatusOK, resp, reqLog)
}

type factsRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "facts")
	var req factsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	writeJSON(w, http.StatusOK, narrative.ExtractBiographicalFacts(req.Transcript), reqLog)
}

type followUpsRequest struct {
	Chapter        string   `json:"chapter"`
	PriorResponses []string `json:"prior_responses"`
}

type followUpsResponse struct {
	Questions []string `json:"questions"`
}

func (s *Server) handleFollowUps(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "followups")
	var req followUpsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	qs := narrative.GenerateFollowUps(req.Chapter, req.PriorResponses)
	writeJSON(w, http.StatusOK, followUpsResponse{Questions: qs}, reqLog)
}

type healthIntentResponse struct {
	Intent   *types.HealthIntent `json:"intent"`
	FollowUp string              `json:"follow_up,omitempty"`
}

func (s *Server) handleHealthIntent(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "health-intent")
	var req textRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	var resp healthIntentResponse
	if intent, ok := narrative.DetectHealthIntent(req.Text); ok {
		resp.Intent = &intent
		resp.FollowUp = narrative.HealthFollowUp(intent)
		s.metrics.RecordHealthIntent(r.Context(), string(intent))
	}
	writeJSON(w, http.StatusOK, resp, reqLog)
}
