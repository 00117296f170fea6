// Package web serves a minimal browser UI plus a JSON API over the same
// store the CLI and TUI use. Server-rendered HTML, no JavaScript framework.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"pantry-cli/internal/donations"
	"pantry-cli/internal/donordir"
	"pantry-cli/internal/model"
	"pantry-cli/internal/store"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var assetsFS embed.FS

type ServerConfig struct {
	Dir      string
	ReadOnly bool
}

type Server struct {
	cfg  ServerConfig
	s    store.Store
	tmpl *template.Template
	log  *zap.Logger
}

func NewServer(cfg ServerConfig, log *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("web: missing store dir")
	}
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"fmtWeight": donations.FormatWeight,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Server{
		cfg:  cfg,
		s:    store.Store{Dir: cfg.Dir},
		tmpl: tmpl,
		log:  log,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /receipt/{id}", s.handleReceiptPage)

	mux.HandleFunc("GET /api/donors", s.handleDonorsList)
	mux.HandleFunc("POST /api/donors", s.guard(s.handleDonorsAdd))
	mux.HandleFunc("POST /api/donors/rename", s.guard(s.handleDonorsRename))
	mux.HandleFunc("POST /api/donors/favorite", s.guard(s.handleDonorsFavorite))
	mux.HandleFunc("DELETE /api/donors/{name}", s.guard(s.handleDonorsDelete))

	mux.HandleFunc("GET /api/donations", s.handleDonationsList)
	mux.HandleFunc("POST /api/donations", s.guard(s.handleDonationsSubmit))
	mux.HandleFunc("DELETE /api/donations/{id}", s.guard(s.handleDonationsDelete))

	mux.HandleFunc("GET /api/prefs", s.handlePrefsGet)
	mux.HandleFunc("POST /api/prefs", s.guard(s.handlePrefsSet))

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// guard rejects mutations when the server runs read-only.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.ReadOnly {
			s.writeError(w, http.StatusForbidden, errors.New("server is read-only"))
			return
		}
		next(w, r)
	}
}

// --- JSON plumbing ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var (
		dup      donordir.DuplicateDonorError
		empty    donordir.EmptyNameError
		notFound donordir.NotFoundError
		dNF      donations.NotFoundError
		invalid  donations.ValidationError
		storage  store.StorageUnavailableError
	)
	switch {
	case errors.As(err, &dup), errors.As(err, &empty), errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound), errors.As(err, &dNF):
		return http.StatusNotFound
	case errors.As(err, &storage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// --- pages ---

type indexVM struct {
	Now             string
	Dir             string
	Donors          []donorVM
	Donations       []model.Donation
	SortMode        model.SortMode
	FavoritesPinned bool
}

type donorVM struct {
	Name     string
	Favorite bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	db, err := s.s.Load()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	favorites := db.FavoriteSet()
	order := donordir.DisplayOrder(db.Donors, db.SortMode, favorites, db.FavoritesPinned)
	dvs := make([]donorVM, 0, len(order))
	for _, n := range order {
		dvs = append(dvs, donorVM{Name: n, Favorite: favorites[model.NormalizeDonor(n)]})
	}
	vm := indexVM{
		Now:             time.Now().Format(time.RFC3339),
		Dir:             s.cfg.Dir,
		Donors:          dvs,
		Donations:       donations.Sorted(db.Donations, donations.Descending),
		SortMode:        db.SortMode,
		FavoritesPinned: db.FavoritesPinned,
	}
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		s.log.Warn("render index", zap.Error(err))
	}
}

type receiptVM struct {
	ID       string
	Donation model.Donation
}

func (s *Server) handleReceiptPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, found, err := s.s.TakeReceipt(id)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	vm := receiptVM{ID: id, Donation: d}
	if err := s.tmpl.ExecuteTemplate(w, "receipt.html", vm); err != nil {
		s.log.Warn("render receipt", zap.Error(err))
	}
}

// --- donors API ---

func (s *Server) handleDonorsList(w http.ResponseWriter, r *http.Request) {
	db, err := s.s.Load()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	favorites := db.FavoriteSet()
	order := donordir.DisplayOrder(db.Donors, db.SortMode, favorites, db.FavoritesPinned)
	rows := make([]map[string]any, 0, len(order))
	for _, n := range order {
		rows = append(rows, map[string]any{
			"name":     n,
			"favorite": favorites[model.NormalizeDonor(n)],
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":            rows,
		"sortMode":        db.SortMode,
		"favoritesPinned": db.FavoritesPinned,
	})
}

func (s *Server) handleDonorsAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	name, err := (donordir.Directory{Store: s.s}).Add(req.Name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"name": name}})
}

func (s *Server) handleDonorsRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := (donordir.Directory{Store: s.s}).Rename(req.OldName, req.NewName); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"name": req.NewName}})
}

func (s *Server) handleDonorsFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	dir := donordir.Directory{Store: s.s}
	if err := dir.ToggleFavorite(req.Name); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	fav, err := dir.IsFavorite(req.Name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"name": req.Name, "favorite": fav}})
}

func (s *Server) handleDonorsDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := (donordir.Directory{Store: s.s}).Remove(name); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"removed": name}})
}

// --- donations API ---

func (s *Server) handleDonationsList(w http.ResponseWriter, r *http.Request) {
	db, err := s.s.Load()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	dir := donations.ParseDirection(r.URL.Query().Get("order"))
	s.writeJSON(w, http.StatusOK, map[string]any{"data": donations.Sorted(db.Donations, dir)})
}

func (s *Server) handleDonationsSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Donor       string             `json:"donor"`
		Temperature string             `json:"temperature"`
		Weights     map[string]float64 `json:"weights"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	db, err := s.s.Load()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	idx, ok := db.FindDonor(model.NormalizeDonor(req.Donor))
	if !ok {
		s.writeError(w, http.StatusNotFound, donordir.NotFoundError{Name: req.Donor})
		return
	}

	sess := donations.NewSession()
	for cat, weight := range req.Weights {
		if weight == 0 {
			continue
		}
		if err := sess.LogWeight(model.Category(cat), weight); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
	}
	d, err := sess.Build(db.Donors[idx], req.Temperature, time.Now())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if err := (donations.Register{Store: s.s}).Append(d); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	// Stage a receipt so the response can link straight to the receipt page.
	receiptID, err := s.s.PutReceipt(d)
	if err != nil {
		s.log.Warn("stage receipt", zap.Error(err))
		receiptID = ""
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"data":       d,
		"receiptId":  receiptID,
		"receiptURL": "/receipt/" + receiptID,
	})
}

func (s *Server) handleDonationsDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := (donations.Register{Store: s.s}).DeleteByID(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": id}})
}

// --- prefs API ---

func (s *Server) handlePrefsGet(w http.ResponseWriter, r *http.Request) {
	db, err := s.s.Load()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"sortMode":        db.SortMode,
		"favoritesPinned": db.FavoritesPinned,
	}})
}

func (s *Server) handlePrefsSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SortMode        *string `json:"sortMode"`
		FavoritesPinned *bool   `json:"favoritesPinned"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.SortMode != nil {
		if err := s.s.SaveSortMode(model.ParseSortMode(*req.SortMode)); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
	}
	if req.FavoritesPinned != nil {
		if err := s.s.SaveFavoritesPinned(*req.FavoritesPinned); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
	}
	s.handlePrefsGet(w, r)
}
