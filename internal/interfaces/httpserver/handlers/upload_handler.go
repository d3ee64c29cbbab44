package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fee-server/internal/config"
	"fee-server/internal/domain/ingest"
	"fee-server/internal/infrastructure/metrics"
	"fee-server/internal/interfaces/httpserver/responses"
)

// UploadHandler exposes the document ingestion endpoint.
type UploadHandler struct {
	cfg     *config.Config
	service *ingest.Service
	log     zerolog.Logger
}

func NewUploadHandler(cfg *config.Config, service *ingest.Service, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "upload-handler").Logger(),
	}
}

// Upload ingests one or more PDF files posted as multipart form data under
// the "files" field, with an optional "conversation_id" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "invalid multipart form", Details: err.Error()})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "no files provided"})
		return
	}

	payloads := make([]ingest.FilePayload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > h.cfg.MaxUploadBytes {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "file too large", Details: fh.Filename})
			return
		}

		src, err := fh.Open()
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			responses.HandleError(c, err, "upload failed")
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			responses.HandleError(c, err, "upload failed")
			return
		}

		payloads = append(payloads, ingest.FilePayload{
			Data:         data,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
		})
		metrics.UploadBytesTotal.Add(float64(len(data)))
	}

	result, err := h.service.Ingest(c.Request.Context(), c.PostForm("conversation_id"), payloads)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("ingestion failed")
		responses.HandleError(c, err, "upload failed")
		return
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, responses.BuildUploadResponse(result))
}
