package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/skill-roadmap/internal/fetch"
	"github.com/jonathan/skill-roadmap/internal/layout"
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

// defaultSurfaceWidth is used when the layout request omits ?width=.
const defaultSurfaceWidth = 1200

// createRoadmapResponse wraps a generation result with its run handle.
type createRoadmapResponse struct {
	ID           string                `json:"id"`
	Roadmap      *roadmap.Roadmap      `json:"roadmap"`
	DroppedEdges []roadmap.DroppedEdge `json:"dropped_edges,omitempty"`
}

// handleCreateRoadmap runs the full generation pipeline for a topic request.
func (s *Server) handleCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req roadmap.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.generationError(w, err)
		return
	}

	id := uuid.New().String()
	s.storeRun(id, result)

	s.jsonResponse(w, http.StatusCreated, createRoadmapResponse{
		ID:           id,
		Roadmap:      result.Roadmap,
		DroppedEdges: result.DroppedEdges,
	})
}

// generationError maps pipeline failures onto HTTP statuses.
func (s *Server) generationError(w http.ResponseWriter, err error) {
	var serviceErr *roadmap.ServiceError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.errorResponse(w, http.StatusGatewayTimeout, "roadmap generation timed out")
	case errors.As(err, &serviceErr):
		s.errorResponse(w, http.StatusBadGateway, serviceErr.Error())
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// handleGetRoadmap returns a previously generated roadmap by run ID.
func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.PathValue("id"))
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "roadmap not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleLayout computes node and edge geometry for a stored roadmap at the
// requested surface width.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.PathValue("id"))
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "roadmap not found")
		return
	}

	width := float64(defaultSurfaceWidth)
	if raw := r.URL.Query().Get("width"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "width must be a positive number")
			return
		}
		width = parsed
	}

	s.jsonResponse(w, http.StatusOK, layout.Compute(result.Roadmap, width))
}

// handleHighlight returns the one-hop highlight set for a hovered node.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.PathValue("id"))
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "roadmap not found")
		return
	}

	nodeID := r.URL.Query().Get("node")
	highlighted := layout.HighlightSet(result.Roadmap, nodeID)

	ids := make([]string, 0, len(highlighted))
	for id := range highlighted {
		ids = append(ids, id)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"node":        nodeID,
		"highlighted": ids,
	})
}

// quizQuestionRequest asks for the session question on one skill.
type quizQuestionRequest struct {
	Skill string `json:"skill"`
}

// handleQuizQuestion returns the (session-stable) question for a skill.
func (s *Server) handleQuizQuestion(w http.ResponseWriter, r *http.Request) {
	session := s.session(r.PathValue("id"))
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "roadmap not found")
		return
	}

	var req quizQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill is required")
		return
	}

	question, err := session.Question(r.Context(), req.Skill)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"skill":    req.Skill,
		"question": question,
	})
}

// quizGradeRequest submits a free-text answer for grading.
type quizGradeRequest struct {
	Skill    string `json:"skill"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// handleQuizGrade grades an answer against its question.
func (s *Server) handleQuizGrade(w http.ResponseWriter, r *http.Request) {
	session := s.session(r.PathValue("id"))
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "roadmap not found")
		return
	}

	var req quizGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Skill == "" || req.Question == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill and question are required")
		return
	}

	grade, err := session.GradeAnswer(r.Context(), req.Skill, req.Question, req.Answer)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, grade)
}

// handlePreview fetches page metadata for a resource URL.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	urlStr := r.URL.Query().Get("url")
	if urlStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "url is required")
		return
	}

	preview, err := fetch.ResourcePreview(r.Context(), urlStr, nil)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, preview)
}
