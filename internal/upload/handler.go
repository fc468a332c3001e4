package upload

import (
	"errors"
	"net/http"

	"github.com/labstack/gommon/log"

	"github.com/civiclens/uploader/internal/middleware"
	"github.com/civiclens/uploader/internal/response"
)

// FieldName is the multipart field the upload endpoint reads.
const FieldName = "file"

// Handler holds the HTTP handler for the upload endpoint.
type Handler struct {
	svc      *Service
	memLimit int64
}

// NewHandler creates a new upload Handler. Multipart parts larger than memLimit bytes are
// buffered to temporary files rather than rejected.
func NewHandler(svc *Service, memLimit int64) *Handler {
	return &Handler{svc: svc, memLimit: memLimit}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores the multipart field "file" as a raw blob with the storage provider and returns the provider's object descriptor unchanged.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to store"
//	@Success		200		{object}	storage.ObjectDescriptor
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Failure		502		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.memLimit); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			h.fail(w, r, parseError("request must be multipart/form-data", err))
			return
		}
		h.fail(w, r, parseError("malformed multipart body", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.fail(w, r, parseError(ErrMissingFile.Error(), ErrMissingFile))
			return
		}
		h.fail(w, r, parseError("cannot read file field", err))
		return
	}
	defer func() { _ = file.Close() }()

	d, err := h.svc.Upload(r.Context(), File{
		Name: header.Filename,
		Size: header.Size,
		Body: file,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.OK(w, d)
}

// fail logs the full error and writes the client-safe message with the kind's status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if !errors.As(err, &e) {
		log.Errorf("upload: unclassified error: %v", err)
		response.InternalError(w)
		return
	}

	if sub := middleware.Subject(r.Context()); sub != "" {
		log.Warnf("upload failed (%s, subject=%s): %v", e.Kind, sub, err)
	} else {
		log.Warnf("upload failed (%s): %v", e.Kind, err)
	}
	response.Error(w, e.Kind.Status(), e.Msg)
}
