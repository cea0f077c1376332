package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"spotlapse/internal/geo"
	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
	"spotlapse/internal/transport/http/middleware"
)

const (
	// multipartOverhead leaves room for the non-file form fields.
	multipartOverhead = 1 << 20
	maxFormMemory     = 32 << 20
)

type CaptureHandler struct {
	captureService CaptureService
}

func NewCaptureHandler(captureService CaptureService) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
	}
}

// Create handles POST /captures
// Accepts multipart/form-data with fields image, spot_id, lat, lng, caption.
// Coordinates that are missing or unparseable are ignored, not rejected.
func (h *CaptureHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.IsAuthenticated() {
		httputil.WriteServiceError(w, r, model.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, model.MaxCaptureSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteServiceError(w, r, model.ErrFileTooLarge)
			return
		}
		httputil.WriteServiceError(w, r, fmt.Errorf("%w: invalid multipart form: %v", model.ErrValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := readCaptureForm(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	result, err := h.captureService.CreateCapture(r.Context(), caller, in)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

func readCaptureForm(r *http.Request) (model.CreateCaptureInput, error) {
	in := model.CreateCaptureInput{}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// The service reports the missing image.
	case err != nil:
		return in, fmt.Errorf("%w: invalid image field: %v", model.ErrValidation, err)
	default:
		defer file.Close()
		// Read one byte past the limit so oversize files are detectable.
		data, err := io.ReadAll(io.LimitReader(file, model.MaxCaptureSize+1))
		if err != nil {
			return in, fmt.Errorf("failed to read upload: %w", err)
		}
		in.Image = data
		in.Filename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	}

	if spotID := r.FormValue("spot_id"); spotID != "" {
		in.SpotID = &spotID
	}
	in.Lat, in.Lng = geo.ParseCoordinates(r.FormValue("lat"), r.FormValue("lng"))
	if values, ok := r.MultipartForm.Value["caption"]; ok && len(values) > 0 {
		caption := values[0]
		in.Caption = &caption
	}
	return in, nil
}
