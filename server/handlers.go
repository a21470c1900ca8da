package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tsawler/debrief"
	"github.com/tsawler/debrief/docx"
	"github.com/tsawler/debrief/period"
	"github.com/tsawler/debrief/render"
	"github.com/tsawler/debrief/variant"
)

// Multipart parts above this size are spooled to disk.
const maxMemory = 8 << 20

const (
	headerRunID    = "X-Debrief-Run-Id"
	headerWarnings = "X-Debrief-Warnings"
)

type layoutInfo struct {
	Tag   string `json:"tag"`
	Title string `json:"title"`
}

type variantInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Categories  []string     `json:"categories"`
	Layouts     []layoutInfo `json:"layouts"`
}

// handleVariants lists the variants with configuration overrides applied.
// GET /variants
func (s *Server) handleVariants(w http.ResponseWriter, _ *http.Request) {
	var out []variantInfo
	for _, name := range variant.Names() {
		v, err := s.cfg.Variant(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		info := variantInfo{Name: v.Name, Description: v.Description, Categories: v.Categories}
		for _, l := range v.Layouts {
			info.Layouts = append(info.Layouts, layoutInfo{Tag: l.Tag, Title: l.Title})
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReport runs the pipeline over the uploaded files.
// POST /reports/{variant}
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	v, err := s.cfg.Variant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing upload: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := readParts(r.MultipartForm.File["files"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, errors.New(`no files uploaded in the "files" field`))
		return
	}

	week, err := intParam(r, "week")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, warnings, err := debrief.New(v).
		Week(week, year).
		Clock(s.now).
		Workers(s.cfg.Workers).
		Layouts(r.MultipartForm.Value["layout"]...).
		Logger(s.log).
		Run(r.Context(), inputs...)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set(headerRunID, report.RunID)
	w.Header().Set(headerWarnings, strconv.Itoa(len(warnings)))
	for _, warn := range warnings {
		s.log.Info("warning",
			zap.String("run_id", report.RunID),
			zap.String("code", string(warn.Code)),
			zap.String("document", warn.Source),
			zap.String("message", warn.Message),
		)
	}

	files, err := encodeOutputs(report.Outputs, r.FormValue("format") == "html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(files) == 1 {
		sendFile(w, files[0])
		return
	}

	bundle, err := zipFiles(files)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	sendFile(w, file{
		name:        fmt.Sprintf("%s_%s.zip", v.Name, report.Period),
		contentType: "application/zip",
		data:        bundle,
	})
}

func readParts(headers []*multipart.FileHeader) ([]debrief.Input, error) {
	inputs := make([]debrief.Input, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		inputs = append(inputs, debrief.Input{Name: fh.Filename, Data: data})
	}
	return inputs, nil
}

// intParam parses an optional integer form value; absent means 0.
func intParam(r *http.Request, name string) (int, error) {
	s := strings.TrimSpace(r.FormValue(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return n, nil
}

type file struct {
	name        string
	contentType string
	data        []byte
}

func encodeOutputs(outputs []debrief.Output, asHTML bool) ([]file, error) {
	files := make([]file, 0, len(outputs))
	for _, out := range outputs {
		if !asHTML {
			files = append(files, file{name: out.Name, contentType: docx.ContentType, data: out.Data})
			continue
		}
		var buf bytes.Buffer
		if err := render.WriteHTML(&buf, out.Blocks); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", out.Name, err)
		}
		files = append(files, file{
			name:        strings.TrimSuffix(out.Name, ".docx") + ".html",
			contentType: "text/html; charset=utf-8",
			data:        buf.Bytes(),
		})
	}
	return files, nil
}

func zipFiles(files []file) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("bundling %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			return nil, fmt.Errorf("bundling %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func sendFile(w http.ResponseWriter, f file) {
	disposition := "attachment"
	if strings.HasPrefix(f.contentType, "text/html") {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": f.name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.data)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.data)
}

// statusFor maps pipeline errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, variant.ErrUnknownVariant):
		return http.StatusNotFound
	case errors.Is(err, variant.ErrUnknownLayout), errors.Is(err, period.ErrInvalidWeek):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
