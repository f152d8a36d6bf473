package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/utils"
	"go-firestore-hampter/internal/validate"
	"go-firestore-hampter/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type putUserRequest struct {
	ProfileImageUrl string `json:"profileImageUrl"`
}

// reactionRequest toggles a like or bookmark. Liked is the caller's belief about
// the current state; the toggle goes the other way.
type reactionRequest struct {
	Username string `json:"username" validate:"required,username"`
	Liked    bool   `json:"liked"`
}

type addCommentResponse struct {
	Id string `json:"id"`
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := validate.Username(username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// the body is optional
	var req putUserRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pfp := strings.TrimSpace(req.ProfileImageUrl)
	if pfp == "" {
		pfp = s.cfg.Stickers.RandomUrl()
	}

	if err := s.cfg.Users.CreateOrUpdate(r.Context(), username, pfp); err != nil {
		log.Error().Err(err).Msgf("server: failed to save user %s", username)
		writeError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	writeJSON(w, http.StatusOK, model.User{Username: username, ProfileImageUrl: pfp})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := s.cfg.Users.GetById(r.Context(), username)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error().Err(err).Msgf("server: failed to get user %s", username)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetInteractions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	interactions, err := s.cfg.Interactions.GetByUsername(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Msgf("server: failed to get interactions of %s", username)
		writeError(w, http.StatusInternalServerError, "failed to get interactions")
		return
	}

	writeJSON(w, http.StatusOK, interactions)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.cfg.Comments.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("server: failed to list comments")
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, view.BuildThreads(comments, r.URL.Query().Get("viewer")))
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req model.NewComment
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IsEmpty() {
		writeError(w, http.StatusBadRequest, ierr.ErrEmptyComment.Error())
		return
	}

	if req.ParentId != nil && strings.TrimSpace(*req.ParentId) != "" {
		parent, err := s.cfg.Comments.GetById(r.Context(), strings.TrimSpace(*req.ParentId))
		if err != nil {
			if errors.Is(err, ierr.NotFound) {
				writeError(w, http.StatusNotFound, "parent comment not found")
				return
			}
			log.Error().Err(err).Msg("server: failed to get parent comment")
			writeError(w, http.StatusInternalServerError, "failed to add comment")
			return
		}
		// replies stay one level deep
		if parent.IsReply() {
			req.ParentId = utils.StringToPointer(*parent.ParentId)
		}
	}

	id, err := s.cfg.Comments.Add(r.Context(), req)
	if err != nil {
		if id == "" && errors.Is(err, ierr.NotFound) {
			writeError(w, http.StatusNotFound, "parent comment not found")
			return
		}
		if id == "" {
			log.Error().Err(err).Msgf("server: failed to add comment of %s", req.Username)
			writeError(w, http.StatusInternalServerError, "failed to add comment")
			return
		}
		// the comment itself is stored, only a follow-up write failed
		log.Error().Err(err).Msgf("server: comment %s added with errors", id)
	}

	writeJSON(w, http.StatusCreated, addCommentResponse{Id: id})
}

func (s *Server) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, ok := s.decodeReaction(w, r)
	if !ok {
		return
	}

	if err := s.cfg.Comments.ToggleLike(r.Context(), id, req.Username, req.Liked); err != nil {
		if errors.Is(err, ierr.NotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		log.Error().Err(err).Msgf("server: failed to toggle like of comment %s", id)
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cfg.VideoStats.GetOrInit(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("server: failed to get video stats")
		writeError(w, http.StatusInternalServerError, "failed to get video stats")
		return
	}

	writeJSON(w, http.StatusOK, view.BuildStats(*stats, r.URL.Query().Get("viewer")))
}

func (s *Server) handleLikeVideo(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeReaction(w, r)
	if !ok {
		return
	}

	if err := s.cfg.VideoStats.ToggleLike(r.Context(), req.Username, req.Liked); err != nil {
		log.Error().Err(err).Msg("server: failed to toggle video like")
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBookmarkVideo(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeReaction(w, r)
	if !ok {
		return
	}

	if err := s.cfg.VideoStats.ToggleBookmark(r.Context(), req.Username, req.Liked); err != nil {
		log.Error().Err(err).Msg("server: failed to toggle video bookmark")
		writeError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListStickers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Stickers.All())
}

func (s *Server) decodeReaction(w http.ResponseWriter, r *http.Request) (reactionRequest, bool) {
	var req reactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
