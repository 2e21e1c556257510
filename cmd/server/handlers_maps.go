package main

import (
	"encoding/json"
	"errors"
	"image/png"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/geometry"
	"github.com/fogtable/fogtable/internal/protocol"
	"github.com/fogtable/fogtable/internal/raster"
)

// handleCreateMap accepts either a multipart file upload or an external media
// URL in the url field.
func (s *server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "parse upload: %v", err)
		return
	}
	var (
		url  string
		typ  protocol.MapType
		name = strings.TrimSpace(r.FormValue("name"))
	)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		typ, err = mapTypeForExt(ext, r.FormValue("type"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		url, err = s.saveUpload(file, ext)
		if err != nil {
			log.Printf("save upload: %v", err)
			writeError(w, http.StatusInternalServerError, "store upload")
			return
		}
		if name == "" {
			name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		}
	case errors.Is(err, http.ErrMissingFile):
		url = strings.TrimSpace(r.FormValue("url"))
		if url == "" {
			writeError(w, http.StatusBadRequest, "upload needs a file or url field")
			return
		}
		typ, err = mapTypeForExt(strings.ToLower(path.Ext(url)), r.FormValue("type"))
		if err != nil {
			// Extension-less URLs need an explicit type.
			switch t := protocol.MapType(r.FormValue("type")); t {
			case protocol.MapTypeImage, protocol.MapTypeVideo:
				typ = t
			default:
				writeError(w, http.StatusBadRequest, "%v", err)
				return
			}
		}
		if name == "" {
			name = strings.TrimSuffix(path.Base(url), path.Ext(url))
		}
	default:
		writeError(w, http.StatusBadRequest, "read upload: %v", err)
		return
	}

	rec, err := s.maps.CreateMap(r.Context(), protocol.MapRecord{Name: name, Type: typ, URL: url})
	if err != nil {
		s.removeUpload(url)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	recs, err := s.maps.ListMaps(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]protocol.MapRecord, len(recs))
	for i, rec := range recs {
		out[i] = s.views.Attach(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleActiveMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.maps.ActiveMap(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.views.Attach(rec))
}

func (s *server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.maps.GetMap(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.views.Attach(rec))
}

// handlePutFow overwrites the whole fog log, last writer wins. The log is
// compacted before it hits disk; the effective fog state is unchanged.
func (s *server) handlePutFow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FowInfo fog.Log `json:"fowInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "decode body: %v", err)
		return
	}
	for _, a := range body.FowInfo {
		if err := a.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}
	rec, err := s.maps.ReplaceFow(r.Context(), r.PathValue("id"), fog.Compact(body.FowInfo))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.reseedIfActive(rec)
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) reseedIfActive(rec protocol.MapRecord) {
	if !rec.IsActive {
		return
	}
	s.mu.Lock()
	s.ledger.Reset()
	s.ledger.Seed(rec.FowInfo)
	s.mu.Unlock()
}

func (s *server) handleActivateMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.maps.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.announceMapChange(r.Context(), rec.ID)
	writeJSON(w, http.StatusOK, s.views.Attach(rec))
}

func (s *server) handleRenameMap(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "decode body: %v", err)
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	rec, err := s.maps.RenameMap(r.Context(), r.PathValue("id"), name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.maps.DeleteMap(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.views.Drop(rec.ID)
	s.removeUpload(rec.URL)
	if rec.IsActive {
		s.announceMapChange(r.Context(), "")
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFowImage renders the map's fog overlay as a PNG, mainly for
// diagnostics and print handouts. The viewport comes from the query; content
// dimensions are optional and default to the viewport.
func (s *server) handleFowImage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.maps.GetMap(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	q := r.URL.Query()
	opts := raster.Options{
		Viewport: geometry.Size{W: parseDim(q.Get("w"), 1280), H: parseDim(q.Get("h"), 720)},
		Content:  geometry.Size{W: parseDim(q.Get("cw"), 0), H: parseDim(q.Get("ch"), 0)},
		GM:       q.Get("role") == "gm",
	}
	img := raster.Overlay(rec.FowInfo, opts)
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("encode fog png: %v", err)
	}
}

const maxRenderDim = 4096

func parseDim(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	if v > maxRenderDim {
		return maxRenderDim
	}
	return v
}
