package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	maxJSONBody   = 4 << 10
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// boardAnalyzer extracts a board from a photo. *GeminiClient implements it.
type boardAnalyzer interface {
	AnalyzeBoard(ctx context.Context, imageData []byte, mimeType string) (Board, error)
}

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux       *http.ServeMux
	store     *Store
	analyzer  boardAnalyzer
	words     WordSource
	minLength int
	sse       *Broadcaster
	log       *slog.Logger
	uploadRL  *rateLimiter
	solveRL   *rateLimiter
}

// NewServer creates a configured HTTP server. analyzer may be nil, which
// disables board photos.
func NewServer(store *Store, analyzer boardAnalyzer, words WordSource, minLength int, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		store:     store,
		analyzer:  analyzer,
		words:     words,
		minLength: minLength,
		sse:       NewBroadcaster(),
		log:       logger,
		uploadRL:  newRateLimiter(5, time.Minute),  // 5 uploads/min per IP
		solveRL:   newRateLimiter(30, time.Minute), // 30 solves/min per IP
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/boards", s.handleCreateBoard)
	s.mux.HandleFunc("GET /api/boards", s.handleListBoards)
	s.mux.HandleFunc("GET /api/boards/{id}", s.handleGetBoard)
	s.mux.HandleFunc("POST /api/boards/{id}/solve", s.handleSolveBoard)
	s.mux.HandleFunc("GET /api/boards/{id}/solutions", s.handleGetSolutions)
	s.mux.HandleFunc("GET /api/boards/{id}/events", s.handleBoardEvents)
	s.mux.HandleFunc("POST /api/solve", s.handleSolveLetters)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Board handlers ---

// POST /api/boards: letters as JSON, or a photo as multipart "image".
func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.createBoardFromImage(w, r)
		return
	}

	var req struct {
		Letters string `json:"letters"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	board, err := ParseLetters(req.Letters)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	source := "letters"
	if req.Letters == "" {
		source = "default"
	}

	writeJSON(w, http.StatusCreated, s.store.SaveBoard(board, source))
}

func (s *Server) createBoardFromImage(w http.ResponseWriter, r *http.Request) {
	if !s.uploadRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	if s.analyzer == nil {
		jsonError(w, "image analysis is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "image too large (max 10 MB)", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "field 'image' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMIME[mimeType] {
		jsonError(w, "accepted formats: JPEG or PNG", http.StatusBadRequest)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "could not read image", http.StatusInternalServerError)
		return
	}

	board, err := s.analyzer.AnalyzeBoard(r.Context(), imageData, mimeType)
	if err != nil {
		s.log.Error("analyze board photo", "err", err)
		jsonError(w, "could not read a board from the image", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusCreated, s.store.SaveBoard(board, "image"))
}

// GET /api/boards
func (s *Server) handleListBoards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListBoards())
}

// GET /api/boards/{id}
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	sb := s.store.GetBoard(r.PathValue("id"))
	if sb == nil {
		jsonError(w, "board not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sb)
}

// --- Solve handlers ---

// POST /api/boards/{id}/solve
func (s *Server) handleSolveBoard(w http.ResponseWriter, r *http.Request) {
	if !s.solveRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	id := r.PathValue("id")
	sb := s.store.GetBoard(id)
	if sb == nil {
		jsonError(w, "board not found", http.StatusNotFound)
		return
	}

	release, err := s.store.BeginRun(id)
	switch {
	case errors.Is(err, ErrRunInProgress):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, ErrBoardNotFound):
		jsonError(w, "board not found", http.StatusNotFound)
		return
	case err != nil:
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer release()

	s.sse.Publish(RunEvent{Type: eventRunStarted, BoardID: id, Running: true})
	s.log.Info("run started", "board", id)

	sess := NewSession(sb.Board, s.words, s.minLength)
	sess.BoardID = id
	res, err := sess.Run(r.Context())
	if err != nil {
		release()
		s.sse.Publish(RunEvent{Type: eventRunFailed, BoardID: id, Error: "word list unavailable"})
		s.log.Error("run failed", "board", id, "err", err)
		jsonError(w, "could not load the word list", http.StatusBadGateway)
		return
	}

	if err := s.store.SaveResult(res); err != nil {
		s.log.Warn("save result", "board", id, "err", err)
	}
	release()
	s.sse.Publish(RunEvent{
		Type:       eventRunFinished,
		BoardID:    id,
		Words:      res.WordCount,
		DurationMS: res.Stats.Duration.Milliseconds(),
	})
	s.log.Info("run finished",
		"board", id,
		"words", res.WordCount,
		"dictionary", res.DictionarySize,
		"visits", res.Stats.Visits,
		"dur", res.Stats.Duration,
	)

	writeJSON(w, http.StatusOK, res)
}

// GET /api/boards/{id}/solutions: result of the last finished run.
func (s *Server) handleGetSolutions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.store.GetBoard(id) == nil {
		jsonError(w, "board not found", http.StatusNotFound)
		return
	}
	res := s.store.GetResult(id)
	if res == nil {
		jsonError(w, "board has not been solved yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/solve: solve letters without storing the board.
func (s *Server) handleSolveLetters(w http.ResponseWriter, r *http.Request) {
	if !s.solveRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Letters string `json:"letters"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	board, err := ParseLetters(req.Letters)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := NewSession(board, s.words, s.minLength).Run(r.Context())
	if err != nil {
		s.log.Error("solve letters", "err", err)
		jsonError(w, "could not load the word list", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/boards/{id}/events: SSE stream of run events.
func (s *Server) handleBoardEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.store.GetBoard(id) == nil {
		jsonError(w, "board not found", http.StatusNotFound)
		return
	}

	s.sse.ServeSSE(w, r, id, func(c *client) {
		evt, _ := json.Marshal(RunEvent{
			Type:    eventRunState,
			BoardID: id,
			Running: s.store.Running(id),
		})
		c.ch <- string(evt)
	})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
