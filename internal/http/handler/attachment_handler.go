package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/service"
	"go.uber.org/zap"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload stores an artwork file sent as multipart form data under "file"
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxSize := h.attachmentService.MaxUploadSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid upload: file exceeds %d bytes or form is malformed", maxSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field in form data")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.attachmentService.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload attachment", zap.Error(err))
		h.handleAttachmentError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/attachments/"+attachment.ID.String())
	respondJSON(w, http.StatusCreated, attachment)
}

// Get returns attachment metadata
func (h *AttachmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	attachment, err := h.attachmentService.Get(r.Context(), id)
	if err != nil {
		h.handleAttachmentError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, attachment)
}

// Download streams the stored file
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	reader, attachment, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		h.handleAttachmentError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	}

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("attachment download interrupted",
			zap.Error(err),
			zap.String("attachment_id", id.String()),
		)
	}
}

// Delete removes an unreferenced attachment and its stored file
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		h.handleAttachmentError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AttachmentHandler) handleAttachmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAttachmentNotFound):
		respondWithError(w, http.StatusNotFound, "Attachment not found")
	case errors.Is(err, service.ErrAttachmentInUse):
		respondWithError(w, http.StatusConflict, "Attachment is referenced by a quote item")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
