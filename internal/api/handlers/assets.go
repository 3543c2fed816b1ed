package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/middleware"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

type AssetHandler struct {
	Assets *services.AssetService
}

func decodeAssetFields(r *http.Request) (services.AssetFields, error) {
	fields := services.AssetFields{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// GET /api/assets
// ListAssets godoc
// @Summary List every asset
// @Description Returns the full, unfiltered list; clients filter, sort and paginate locally.
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Asset
// @Failure 401 {object} utils.Message
// @Router /api/assets [get]
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, assets)
}

// GET /api/assets/{id}
// GetAsset godoc
// @Summary Get one asset
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 404 {object} utils.Message
// @Router /api/assets/{id} [get]
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Assets.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, asset)
}

// POST /api/assets
// CreateAsset godoc
// @Summary Create an asset owned by the caller
// @Description tags may be a list or a comma-separated string; size may be a number or numeric string.
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Asset true "Asset fields"
// @Success 201 {object} models.Asset
// @Failure 400 {object} utils.Message
// @Router /api/assets [post]
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	fields, err := decodeAssetFields(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	asset, err := h.Assets.Create(r.Context(), callerID, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, asset)
}

// PUT /api/assets/{id}
// UpdateAsset godoc
// @Summary Update an owned asset
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Param request body models.Asset true "Fields to overwrite"
// @Success 200 {object} models.Asset
// @Failure 400 {object} utils.Message
// @Failure 403 {object} utils.Message
// @Failure 404 {object} utils.Message
// @Router /api/assets/{id} [put]
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	fields, err := decodeAssetFields(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	asset, err := h.Assets.Update(r.Context(), callerID, r.PathValue("id"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, asset)
}

// DELETE /api/assets/{id}
// DeleteAsset godoc
// @Summary Delete an owned asset
// @Tags Assets
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 204
// @Failure 403 {object} utils.Message
// @Failure 404 {object} utils.Message
// @Router /api/assets/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.Assets.Delete(r.Context(), callerID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
