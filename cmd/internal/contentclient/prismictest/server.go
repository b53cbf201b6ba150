// Package prismictest provides an in-memory content API for tests.
package prismictest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"

	"spacetraveling/richtext"
)

const (
	MasterRef    = "master-ref-1"
	DocumentType = "posts"
	SearchPath   = "/api/v2/documents/search"
)

type Section struct {
	Heading *string
	Body    richtext.RichText
}

// Document is a post as stored by the fake API.
type Document struct {
	UID                  string
	FirstPublicationDate string
	Title                string
	Subtitle             string
	Author               string
	BannerURL            string
	Content              []Section
}

func (d Document) payload() map[string]any {
	content := make([]map[string]any, 0, len(d.Content))
	for _, s := range d.Content {
		content = append(content, map[string]any{"heading": s.Heading, "body": s.Body})
	}
	var first any
	if d.FirstPublicationDate != "" {
		first = d.FirstPublicationDate
	}
	return map[string]any{
		"id":                     "id-" + d.UID,
		"uid":                    d.UID,
		"type":                   DocumentType,
		"first_publication_date": first,
		"last_publication_date":  first,
		"data": map[string]any{
			"title":    d.Title,
			"subtitle": d.Subtitle,
			"author":   d.Author,
			"banner":   map[string]any{"url": d.BannerURL},
			"content":  content,
		},
	}
}

// Server serves /api/v2 and /api/v2/documents/search over httptest.
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	docs []Document
	// SearchStatus, when non-zero, is returned for every search request.
	SearchStatus int

	searches atomic.Int64
}

var (
	uidPredicate  = regexp.MustCompile(`at\(my\.\w+\.uid,"([^"]*)"\)`)
	typePredicate = regexp.MustCompile(`at\(document\.type,"([^"]*)"\)`)
)

func NewServer(docs ...Document) *Server {
	s := &Server{docs: docs}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", s.handleAPI)
	mux.HandleFunc(SearchPath, s.handleSearch)
	s.Server = httptest.NewServer(mux)
	return s
}

// SetDocuments replaces the stored documents.
func (s *Server) SetDocuments(docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
}

// Searches counts search requests served so far.
func (s *Server) Searches() int64 {
	return s.searches.Load()
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"refs": []map[string]any{
			{"id": "master", "ref": MasterRef, "label": "Master", "isMasterRef": true},
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.searches.Add(1)
	s.mu.Lock()
	status := s.SearchStatus
	docs := append([]Document(nil), s.docs...)
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, "search failed", status)
		return
	}

	q := r.URL.Query()
	if q.Get("ref") != MasterRef {
		http.Error(w, `{"error":"invalid ref"}`, http.StatusBadRequest)
		return
	}

	matched := docs
	predicates := q.Get("q")
	if m := uidPredicate.FindStringSubmatch(predicates); m != nil {
		matched = nil
		for _, d := range docs {
			if d.UID == m[1] {
				matched = append(matched, d)
			}
		}
	} else if m := typePredicate.FindStringSubmatch(predicates); m != nil && m[1] != DocumentType {
		matched = nil
	}

	pageSize := atoiDefault(q.Get("pageSize"), 20)
	page := atoiDefault(q.Get("page"), 1)
	from := (page - 1) * pageSize
	if from > len(matched) {
		from = len(matched)
	}
	to := from + pageSize
	if to > len(matched) {
		to = len(matched)
	}

	results := make([]map[string]any, 0, to-from)
	for _, d := range matched[from:to] {
		results = append(results, d.payload())
	}

	var next any
	if to < len(matched) {
		nq := r.URL.Query()
		nq.Set("page", strconv.Itoa(page+1))
		next = s.URL + SearchPath + "?" + nq.Encode()
	}

	writeJSON(w, map[string]any{
		"page":               page,
		"results_per_page":   pageSize,
		"results_size":       len(results),
		"total_results_size": len(matched),
		"next_page":          next,
		"prev_page":          nil,
		"results":            results,
	})
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
