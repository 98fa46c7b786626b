package handler

import (
	"fmt"
	"net/http"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/attachment"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
	"github.com/VladKovDev/botconstructor/pkg/logger"
	"go.uber.org/zap"
)

// AttachmentHandler accepts multipart attachment batches for message
// blocks.
type AttachmentHandler struct {
	service *attachment.Service
	logger  logger.Logger
}

func NewAttachmentHandler(service *attachment.Service, logger logger.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AttachmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /scenario/attachment", h.upload)
}

// memory threshold for multipart parsing; bigger parts spill to disk.
const multipartMemory = 8 << 20

func (h *AttachmentHandler) upload(w http.ResponseWriter, r *http.Request) {
	// One extra megabyte of headroom for the multipart framing.
	limit := int64(validation.MaxAttachmentsPerBatch)*validation.MaxAttachmentSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	mediaOnly := r.FormValue("type") != string(scenario.ModeDocument)

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, h.logger, fmt.Errorf("%w: no files in request", errBadRequest))
		return
	}

	uploads := make([]attachment.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		defer f.Close()

		uploads = append(uploads, attachment.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	attachments, err := h.service.UploadBatch(r.Context(), uploads, mediaOnly)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("attachments uploaded", zap.Int("count", len(attachments)))
	writeJSON(w, http.StatusCreated, attachments)
}
