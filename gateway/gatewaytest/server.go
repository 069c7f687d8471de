// Package gatewaytest provides an in-memory Primordia backend for tests.
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"primordia/gateway"
	"primordia/model"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type job struct {
	doc      model.JobDocument
	statuses []model.JobStatus
	polls    int
}

// Server is a scriptable fake of the orchestration API served over httptest.
type Server struct {
	srv *httptest.Server

	mu              sync.Mutex
	files           map[string]string
	fileContentType string
	jobs            map[string]*job
	jobOrder        []string
	script          []model.JobStatus
	submitStatus    int
	failPoll        int
	statusPolls     int
	proxyCalls      []gateway.ProxyRequest
	proxyType       string
	proxyBody       string
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		files:           make(map[string]string),
		fileContentType: "text/plain; charset=utf-8",
		jobs:            make(map[string]*job),
		script:          []model.JobStatus{model.JobSuccess},
		submitStatus:    http.StatusAccepted,
	}
	s.srv = httptest.NewServer(s.Handler())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// Client returns a gateway client pointed at the fake.
func (s *Server) Client(opts ...gateway.Option) *gateway.Client {
	return gateway.NewClient(s.srv.URL, opts...)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/files", s.listFiles)
	r.Get("/file", s.readFile)
	r.Post("/file", s.writeFile)

	r.Route("/workspace", func(r chi.Router) {
		r.Post("/", s.submitJob)
		r.Get("/status/{job_id}", s.jobStatus)
		r.Post("/proxy", s.proxy)
	})

	return r
}

// PutFile seeds a workspace file.
func (s *Server) PutFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

func (s *Server) File(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	return content, ok
}

// SetFileContentType changes the content type used when serving file reads.
func (s *Server) SetFileContentType(ct string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileContentType = ct
}

// ScriptJobs sets the status sequence reported for jobs submitted from now on.
// The last status repeats once the sequence is exhausted.
func (s *Server) ScriptJobs(statuses ...model.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append([]model.JobStatus(nil), statuses...)
}

// SetSubmitStatus makes job submission answer with the given status code.
func (s *Server) SetSubmitStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitStatus = code
}

// FailStatusOnPoll makes the nth status request (1-based, across all jobs)
// answer 500. Zero disables failure injection.
func (s *Server) FailStatusOnPoll(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPoll = n
}

func (s *Server) StatusPolls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusPolls
}

// Jobs returns the ids of submitted jobs in submission order.
func (s *Server) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.jobOrder...)
}

func (s *Server) ProxyCalls() []gateway.ProxyRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.ProxyRequest(nil), s.proxyCalls...)
}

// SetProxyResponse replaces the default JSON echo with a fixed reply.
func (s *Server) SetProxyResponse(contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proxyType = contentType
	s.proxyBody = body
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, code int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	files := make([]string, 0, len(s.files))
	for path := range s.files {
		files = append(files, path)
	}
	s.mu.Unlock()

	sort.Strings(files)
	writeJSON(w, http.StatusOK, gateway.FileList{Files: files})
}

func (s *Server) readFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	s.mu.Lock()
	content, ok := s.files[path]
	ct := s.fileContentType
	s.mu.Unlock()

	if !ok {
		writeText(w, http.StatusNotFound, "text/plain", fmt.Sprintf("file not found: %s", path))
		return
	}
	writeText(w, http.StatusOK, ct, content)
}

func (s *Server) writeFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeText(w, http.StatusBadRequest, "text/plain", "path and content are required")
		return
	}

	s.PutFile(req.Path, req.Content)
	writeJSON(w, http.StatusOK, gateway.WriteResult{
		Success: true,
		Message: fmt.Sprintf("File %s written", req.Path),
	})
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" || req.Name == "" {
		writeText(w, http.StatusBadRequest, "text/plain", "type and name are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("job-%d", len(s.jobOrder)+1)
	accepted := gateway.JobAccepted{JobID: id, Message: "Job accepted"}
	if s.submitStatus != http.StatusAccepted {
		writeJSON(w, s.submitStatus, accepted)
		return
	}

	s.jobs[id] = &job{
		doc: model.JobDocument{
			JobID:      id,
			Status:     model.JobPending,
			ReceivedAt: time.Now().UTC(),
			Blueprint:  model.JobBlueprint{Type: req.Type, Name: req.Name},
			Logs:       []string{},
		},
		statuses: append([]model.JobStatus(nil), s.script...),
	}
	s.jobOrder = append(s.jobOrder, id)

	writeJSON(w, http.StatusAccepted, accepted)
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusPolls++
	if s.failPoll > 0 && s.statusPolls == s.failPoll {
		writeText(w, http.StatusInternalServerError, "text/plain", "status backend unavailable")
		return
	}

	j, ok := s.jobs[id]
	if !ok {
		writeText(w, http.StatusNotFound, "text/plain", fmt.Sprintf("job not found: %s", id))
		return
	}

	if len(j.statuses) > 0 {
		idx := j.polls
		if idx >= len(j.statuses) {
			idx = len(j.statuses) - 1
		}
		j.doc.Status = j.statuses[idx]
	}
	j.polls++
	j.doc.Logs = append(j.doc.Logs, fmt.Sprintf("status %s", j.doc.Status))

	if j.doc.Status.IsTerminal() && j.doc.CompletedAt == nil {
		done := time.Now().UTC()
		j.doc.CompletedAt = &done
		if j.doc.Status == model.JobSuccess {
			j.doc.Outputs = map[string]any{
				"url": fmt.Sprintf("http://primordia-local-service-%s:8080", j.doc.Blueprint.Name),
			}
		}
	}

	doc := j.doc
	doc.Logs = append([]string(nil), j.doc.Logs...)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) proxy(w http.ResponseWriter, r *http.Request) {
	var req gateway.ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "text/plain", "invalid proxy request")
		return
	}

	s.mu.Lock()
	s.proxyCalls = append(s.proxyCalls, req)
	ct, body := s.proxyType, s.proxyBody
	s.mu.Unlock()

	if ct != "" {
		writeText(w, http.StatusOK, ct, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"method": req.Method,
		"url":    req.URL,
		"body":   req.Body,
	})
}
