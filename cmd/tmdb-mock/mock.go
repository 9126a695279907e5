package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

//go:embed fixtures.json
var defaultFixtures []byte

type statusBody struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// catalog serves listing pages and details from a fixed set of movies.
type catalog struct {
	ranked   []tmdb.MovieResult
	byID     map[int]tmdb.MovieDetailsResponse
	pageSize int
}

func loadCatalog(data []byte, pageSize int) (*catalog, error) {
	var movies []tmdb.MovieDetailsResponse
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	c := &catalog{byID: make(map[int]tmdb.MovieDetailsResponse, len(movies)), pageSize: pageSize}
	for _, m := range movies {
		c.byID[m.ID] = m
		c.ranked = append(c.ranked, m.MovieResult)
	}
	sort.SliceStable(c.ranked, func(i, j int) bool {
		if c.ranked[i].VoteAverage != c.ranked[j].VoteAverage {
			return c.ranked[i].VoteAverage > c.ranked[j].VoteAverage
		}
		return c.ranked[i].VoteCount > c.ranked[j].VoteCount
	})
	return c, nil
}

func (c *catalog) page(n int) tmdb.TopRatedResponse {
	total := (len(c.ranked) + c.pageSize - 1) / c.pageSize
	resp := tmdb.TopRatedResponse{
		Page:         n,
		Results:      []tmdb.MovieResult{},
		TotalPages:   total,
		TotalResults: len(c.ranked),
	}
	start := (n - 1) * c.pageSize
	if start < len(c.ranked) {
		end := start + c.pageSize
		if end > len(c.ranked) {
			end = len(c.ranked)
		}
		resp.Results = c.ranked[start:end]
	}
	return resp
}

func newRouter(c *catalog, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("mock: request")
			if !strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, statusBody{StatusCode: 7, StatusMessage: "Invalid API key: You must be granted a valid key."})
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/3/movie/top_rated", func(w http.ResponseWriter, req *http.Request) {
		n := 1
		if raw := req.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 1000 {
				writeJSON(w, http.StatusBadRequest, statusBody{StatusCode: 22, StatusMessage: "Invalid page: Pages start at 1 and max at 1000. They are expected to be an integer."})
				return
			}
			n = parsed
		}
		writeJSON(w, http.StatusOK, c.page(n))
	})

	r.Get("/3/movie/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(req, "id"))
		movie, ok := c.byID[id]
		if err != nil || !ok {
			writeJSON(w, http.StatusNotFound, statusBody{StatusCode: 34, StatusMessage: "The resource you requested could not be found."})
			return
		}
		writeJSON(w, http.StatusOK, movie)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
