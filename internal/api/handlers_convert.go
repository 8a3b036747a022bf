package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/markdoc/internal/convert"
	"github.com/dgallion1/markdoc/internal/pipeline"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// formOverhead is allowed on top of MaxUploadBytes for multipart framing
// and the header and footer fields.
const formOverhead = 1024 * 1024

// handleConvert renders an uploaded HTML or Markdown document as .docx.
// It accepts either a multipart form with a "file" part plus optional
// "format", "header" and "footer" fields, or the markup as the raw body
// with the same options in the query string.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)

	var (
		req pipeline.Request
		ok  bool
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, ok = s.readMultipart(w, r)
	} else {
		req, ok = s.readRaw(w, r)
	}
	if !ok {
		return
	}

	etag := `"` + req.ContentHash() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out, err := s.pipeline.RenderDOCX(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if isClientError(err) {
			code = http.StatusBadRequest
		}
		w.Header().Del("ETag")
		jsonError(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputName(req.Filename, out.Title)))
	w.Write(out.Data)
}

func (s *Server) readMultipart(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if tooLarge(err) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		}
		return pipeline.Request{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	defer file.Close()

	body, ok := s.readLimited(w, file)
	if !ok {
		return pipeline.Request{}, false
	}
	req := pipeline.Request{
		Body:     body,
		Header:   r.FormValue("header"),
		Footer:   r.FormValue("footer"),
		Filename: sanitizeFilename(header.Filename),
	}
	return s.withFormat(w, req, r.FormValue("format"))
}

func (s *Server) readRaw(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	body, ok := s.readLimited(w, r.Body)
	if !ok {
		return pipeline.Request{}, false
	}
	q := r.URL.Query()
	req := pipeline.Request{
		Body:   body,
		Header: q.Get("header"),
		Footer: q.Get("footer"),
	}
	if name := q.Get("filename"); name != "" {
		req.Filename = sanitizeFilename(name)
	}
	return s.withFormat(w, req, q.Get("format"))
}

// withFormat applies an explicit format, or checks that the filename has a
// supported extension when there is none.
func (s *Server) withFormat(w http.ResponseWriter, req pipeline.Request, format string) (pipeline.Request, bool) {
	var err error
	switch {
	case format != "":
		req.Format, err = pipeline.ParseFormat(format)
	case req.Filename != "":
		req.Format, err = pipeline.FormatFor(req.Filename)
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	return req, true
}

func (s *Server) readLimited(w http.ResponseWriter, r io.Reader) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		if tooLarge(err) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, "failed to read body", http.StatusBadRequest)
		}
		return "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", false
	}
	return string(data), true
}

func isClientError(err error) bool {
	return errors.Is(err, convert.ErrEmptyMarkup) ||
		errors.Is(err, convert.ErrMalformed) ||
		errors.Is(err, pipeline.ErrUnsupported)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// outputName picks the download name: the upload's stem, else the
// document title, else "document".
func outputName(filename, title string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if stem == "" {
		stem = sanitizeFilename(title)
	}
	if stem == "" || stem == "unnamed" {
		stem = "document"
	}
	return stem + ".docx"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
