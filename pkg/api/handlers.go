package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/reader"
	"github.com/japaniel/wordbook/pkg/speech"
	"github.com/japaniel/wordbook/pkg/wordbook"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Store().Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListVocabulary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	book, byBook, err := queryID(r, "book")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	src, tar := strings.TrimSpace(q.Get("src")), strings.TrimSpace(q.Get("tar"))

	var words []db.Vocabulary
	switch {
	case byBook:
		words, err = s.svc.WordsByBook(ctx, book)
	case src != "" || tar != "":
		if src == "" || tar == "" {
			writeError(w, r, apperrors.Validation("src and tar must be given together"))
			return
		}
		words, err = s.svc.WordsByLanguages(ctx, src, tar)
	default:
		words, err = s.svc.Words(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if words == nil {
		words = []db.Vocabulary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"vocabulary": words})
}

func (s *Server) handleAddVocabulary(w http.ResponseWriter, r *http.Request) {
	var req wordbook.AddWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("async") == "true" {
		s.svc.AddWordAsync(context.WithoutCancel(r.Context()), req, func(v db.Vocabulary, err error) {
			if err != nil {
				log.Warn().Err(err).Str("word", req.Word).Msg("Async add failed")
				return
			}
			log.Debug().Int64("id", v.ID).Msg("Async add completed")
		})
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
		return
	}
	v, err := s.svc.AddWord(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if strings.TrimSpace(word) == "" {
		writeError(w, r, apperrors.Validation("word must be non-empty"))
		return
	}
	id, ok, err := s.svc.Exists(r.Context(), word)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := map[string]any{"word": db.NormalizeWord(word), "exists": ok}
	if ok {
		resp["vocabulary_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVocabulary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.svc.Word(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteWord(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetranslate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.svc.RetranslateWord(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type spellingRequest struct {
	Attempt string `json:"attempt"`
}

func (s *Server) handleSpelling(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req spellingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.CheckSpelling(r.Context(), id, req.Attempt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListSentences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.SampleSentences(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []db.SampleSentence{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sentences": list})
}

type sentenceRequest struct {
	Sentence string `json:"sentence"`
	Resource string `json:"resource"`
}

func (s *Server) handleAddSentence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sentenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.svc.AddSampleSentence(r.Context(), id, req.Sentence, req.Resource)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleClearSentences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.svc.ClearSampleSentences(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleDeleteSentence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteSampleSentence(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type matchRequest struct {
	Word       string   `json:"word"`
	Language   string   `json:"language"`
	Paragraphs []string `json:"paragraphs"`
	// Text is split into paragraphs on blank lines when Paragraphs is empty.
	Text string `json:"text"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	paragraphs := req.Paragraphs
	if len(paragraphs) == 0 {
		paragraphs = reader.ChunkParagraphs(req.Text)
	}
	sel, err := s.svc.SelectIn(r.Context(), req.Word, req.Language, paragraphs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

type translateRequest struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.svc.TranslateTo(r.Context(), req.Text, req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translation": out})
}

type evaluationResponse struct {
	Result *speech.Result `json:"result"`
	Score  string         `json:"score"`
	Report string         `json:"report"`
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	res, err := speech.Parse(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluationResponse{
		Result: res,
		Score:  speech.Score(res),
		Report: res.Format(),
	})
}
