package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/cinelist/internal/domain"
)

// cacheControl lets shared caches serve a response for five minutes and
// keep serving it stale for another ten while revalidating.
const cacheControl = "public, s-maxage=300, stale-while-revalidate=600"

const (
	msgInvalidPage    = "Invalid page parameter. Must be between 1 and 1000."
	msgInvalidMovieID = "Invalid movie ID. Must be a positive integer."
	msgMovieNotFound  = "Movie not found"
	msgTopRatedFailed = "Failed to fetch top-rated movies"
	msgDetailFailed   = "Failed to fetch movie details"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(r.URL.Query().Get("page"))
	if !ok {
		s.respondError(w, http.StatusBadRequest, msgInvalidPage, "")
		return
	}

	result, err := s.topRatedPage(r.Context(), page)
	if err != nil {
		if domain.IsValidation(err) {
			s.respondError(w, http.StatusBadRequest, msgInvalidPage, "")
			return
		}
		s.logger.Error().Err(err).Int("page", page).Msg("http: top-rated movies")
		s.respondError(w, http.StatusInternalServerError, msgTopRatedFailed, err.Error())
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) topRatedPage(ctx context.Context, page int) (domain.Page, error) {
	if page == domain.MinPage && s.listing != nil {
		if err := s.listing.Start(ctx); err != nil {
			return domain.Page{}, err
		}
		if pages := s.listing.Pages(); len(pages) > 0 {
			return pages[0], nil
		}
	}
	return s.movies.GetPage(ctx, page)
}

func (s *Server) handleMovieDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMovieID(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusBadRequest, msgInvalidMovieID, "")
		return
	}

	detail, err := s.movies.GetMovieDetail(r.Context(), id)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			s.respondError(w, http.StatusBadRequest, msgInvalidMovieID, "")
		case errors.Is(err, domain.ErrNotFound):
			s.respondError(w, http.StatusNotFound, msgMovieNotFound, "")
		default:
			s.logger.Error().Err(err).Int("movie_id", id).Msg("http: movie details")
			s.respondError(w, http.StatusInternalServerError, msgDetailFailed, err.Error())
		}
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	s.respondJSON(w, http.StatusOK, detail)
}

// parsePage reads the page query value. A missing value means the first
// page; anything else must be an integer in the provider's page range.
func parsePage(raw string) (int, bool) {
	if raw == "" {
		return domain.MinPage, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < domain.MinPage || page > domain.MaxPage {
		return 0, false
	}
	return page, true
}

func parseMovieID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("http: encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, details string) {
	s.respondJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
