package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MalithGihan/raftplot/internal/chart"
	"github.com/MalithGihan/raftplot/internal/ingest"
	"github.com/MalithGihan/raftplot/internal/report"
	"github.com/MalithGihan/raftplot/internal/store"
	"github.com/MalithGihan/raftplot/pkg/rlog"
	"github.com/MalithGihan/raftplot/pkg/types"
)

const maxUpload = 64 << 20

var log = rlog.New("server")

type Server struct {
	st   *store.FS
	opts chart.Options
}

func New(st *store.FS, opts chart.Options) *Server {
	return &Server{st: st, opts: opts}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"raftplot"}`))
	})

	r.Route("/traces", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.upload)
		r.Get("/{id}/summary", s.summary)
		r.Get("/{id}/chart.{ext}", s.renderChart)
		r.Delete("/{id}", s.remove)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("raftplot viewer listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.st.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "traces": ids})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		src = f
	}
	b, err := io.ReadAll(src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tr, err := ingest.Parse(bytes.NewReader(b))
	if err != nil {
		log.Warn("rejected trace upload", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	if _, err := s.st.Put(id, bytes.NewReader(b)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info("trace stored", zap.String("traceId", id), zap.Int("steps", len(tr.Steps)), zap.Int("nodes", len(tr.Nodes)))
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "traceId": id})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.load(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sum, err := report.Build(tr)
	if err != nil {
		httpError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	var buf bytes.Buffer
	if err := report.Encode(&buf, sum, format); err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType(format))
	w.Write(buf.Bytes())
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.load(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	p, err := chart.Render(tr, s.opts)
	if err != nil {
		httpError(w, err)
		return
	}
	ext := chi.URLParam(r, "ext")
	var buf bytes.Buffer
	if err := chart.Write(&buf, p, ext, s.opts); err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(ext))
	w.Write(buf.Bytes())
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.st.Remove(chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(w http.ResponseWriter, id string) (types.Trace, bool) {
	f, err := s.st.Open(id)
	if err != nil {
		httpError(w, err)
		return types.Trace{}, false
	}
	defer f.Close()
	tr, err := ingest.Parse(f)
	if err != nil {
		httpError(w, err)
		return types.Trace{}, false
	}
	return tr, true
}

func httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ingest.ErrMalformedLine),
		errors.Is(err, chart.ErrUnsupportedFormat),
		errors.Is(err, report.ErrUnsupportedFormat):
		code = http.StatusBadRequest
	case errors.Is(err, types.ErrInconsistentSeries), errors.Is(err, types.ErrNoSteps):
		code = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func contentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	case "eps":
		return "application/postscript"
	default:
		return "application/octet-stream"
	}
}
