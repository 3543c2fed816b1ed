package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/middleware"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

const maxUploadSize = 100 << 20 // 100 MB

type UploadHandler struct {
	Uploads *services.UploadService
}

type presignRequest struct {
	Filename string `json:"filename"`
}

// POST /api/uploads
// UploadFiles godoc
// @Summary Upload a preview image and an asset file
// @Description Both files are stored concurrently; the returned public URLs go into the asset's image and url fields.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file false "Preview image"
// @Param file formData file false "Asset file"
// @Success 201 {object} services.UploadResult
// @Failure 400 {object} utils.Message
// @Failure 409 {object} utils.Message
// @Router /api/uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	image, closeImage, err := formFile(r, "image")
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid image file")
		return
	}
	defer closeImage()
	file, closeFile, err := formFile(r, "file")
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid asset file")
		return
	}
	defer closeFile()

	var total int64
	for _, f := range []*models.ObjectInput{image, file} {
		if f != nil {
			total += f.Size
		}
	}
	if total > maxUploadSize {
		utils.ErrorResponse(w, http.StatusBadRequest, "Total file size exceeds 100 MB limit")
		return
	}

	result, err := h.Uploads.UploadPair(r.Context(), callerID, image, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, result)
}

// POST /api/uploads/presign
// PresignUpload godoc
// @Summary Get a presigned PUT URL
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handlers.presignRequest true "File name"
// @Success 200 {object} models.PresignedUpload
// @Failure 400 {object} utils.Message
// @Router /api/uploads/presign [post]
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input presignRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	presigned, err := h.Uploads.Presign(r.Context(), callerID, input.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, presigned)
}

// formFile returns nil when the field is absent.
func formFile(r *http.Request, field string) (*models.ObjectInput, func(), error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, func() {}, nil
	}
	return openPart(headers[0])
}

func openPart(fh *multipart.FileHeader) (*models.ObjectInput, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &models.ObjectInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, func() { src.Close() }, nil
}
