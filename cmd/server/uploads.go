package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fogtable/fogtable/internal/protocol"
)

const maxUploadBytes = 64 << 20

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".mpeg": true,
}

// mapTypeForExt resolves the record type for an uploaded map file. An
// explicit form value must match the extension family; otherwise the
// extension decides.
func mapTypeForExt(ext, declared string) (protocol.MapType, error) {
	var typ protocol.MapType
	switch {
	case imageExts[ext]:
		typ = protocol.MapTypeImage
	case videoExts[ext]:
		typ = protocol.MapTypeVideo
	default:
		return "", fmt.Errorf("unsupported map file type %q", ext)
	}
	if declared != "" && declared != string(typ) {
		return "", fmt.Errorf("declared type %q does not match file type %q", declared, ext)
	}
	return typ, nil
}

// saveUpload stores the payload under a fresh random name and returns the
// public URL it will be served from.
func (s *server) saveUpload(src io.Reader, ext string) (string, error) {
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}

// removeUpload deletes the backing file of a deleted record. External URL
// references have no local file and are left alone.
func (s *server) removeUpload(url string) {
	if !strings.HasPrefix(url, "/uploads/") {
		return
	}
	name := path.Base(url)
	if name == "" || name == "." || name == "/" {
		return
	}
	_ = os.Remove(filepath.Join(s.cfg.UploadDir, name))
}
