package main

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fogtable/fogtable/internal/protocol"
)

func soundCategory(raw string) (protocol.SoundCategory, bool) {
	switch protocol.SoundCategory(raw) {
	case protocol.SoundAmbient, protocol.SoundSFX:
		return protocol.SoundCategory(raw), true
	case "":
		return protocol.SoundAmbient, true
	}
	return "", false
}

func (s *server) handleCreateSound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "parse upload: %v", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "upload needs a file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !audioExts[ext] {
		writeError(w, http.StatusBadRequest, "unsupported sound file type %q", ext)
		return
	}
	category, ok := soundCategory(r.FormValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown sound category %q", r.FormValue("category"))
		return
	}
	url, err := s.saveUpload(file, ext)
	if err != nil {
		log.Printf("save upload: %v", err)
		writeError(w, http.StatusInternalServerError, "store upload")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	rec, err := s.sounds.CreateSound(r.Context(), protocol.SoundRecord{Name: name, URL: url, Category: category})
	if err != nil {
		s.removeUpload(url)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleListSounds(w http.ResponseWriter, r *http.Request) {
	recs, err := s.sounds.ListSounds(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if recs == nil {
		recs = []protocol.SoundRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *server) handleUpdateSound(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     *string `json:"name"`
		Category *string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "decode body: %v", err)
		return
	}
	var category *protocol.SoundCategory
	if body.Category != nil {
		c, ok := soundCategory(*body.Category)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown sound category %q", *body.Category)
			return
		}
		category = &c
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	rec, err := s.sounds.UpdateSound(r.Context(), r.PathValue("id"), body.Name, category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleDeleteSound(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sounds.DeleteSound(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.removeUpload(rec.URL)
	w.WriteHeader(http.StatusNoContent)
}
