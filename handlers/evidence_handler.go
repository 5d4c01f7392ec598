package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gamebay/tournament-engine/middleware"
	"github.com/gamebay/tournament-engine/storage"
	"github.com/google/uuid"
)

const maxEvidenceSize = 10 << 20 // 10MB

var allowedEvidenceTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"video/mp4":  true,
}

type EvidenceHandler struct {
	uploader storage.FileUploader
}

func NewEvidenceHandler(uploader storage.FileUploader) *EvidenceHandler {
	return &EvidenceHandler{uploader: uploader}
}

// Upload godoc
// @Summary      Upload an evidence file for result submissions and disputes
// @Tags         evidence
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Router       /evidence [post]
func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "evidence storage is not configured")
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEvidenceSize)
	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("file must not be larger than %d bytes", maxEvidenceSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedEvidenceTypes[contentType] {
		badRequestResponse(w, r, fmt.Errorf("unsupported content type %q", contentType))
		return
	}

	key := fmt.Sprintf("evidence/%d/%s%s", userID, uuid.New(), filepath.Ext(header.Filename))
	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{
		"key": result.Key,
		"url": result.Location,
	}, nil)
}
