package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lostfound/registry/internal/files"
	"github.com/lostfound/registry/internal/imaging"
	"github.com/lostfound/registry/internal/model"
	"github.com/lostfound/registry/internal/store"
)

// maxUploadSize caps multipart request bodies at 10 MB.
const maxUploadSize = 10 << 20

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB    *sql.DB
	Files *files.Store
}

type listResponse struct {
	Count int          `json:"count"`
	Data  []model.Item `json:"data"`
}

// List handles GET /item.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, listResponse{Count: len(items), Data: items})
}

// Create handles POST /item. The request is multipart: five text fields
// plus exactly one image file, all required.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	phoneNo := r.FormValue("phoneno")
	title := r.FormValue("title")
	description := r.FormValue("description")

	file, _, err := r.FormFile("image")
	if name == "" || email == "" || phoneNo == "" || title == "" || description == "" || err != nil {
		jsonError(w, http.StatusBadRequest, "all fields are required, including image upload")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image must be a valid JPEG or PNG")
		return
	}

	filename, err := h.Files.Save(result.Data, result.Ext)
	if err != nil {
		slog.Error("saving upload", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, name, email, phoneNo, title, description, filename)
	if err != nil {
		slog.Error("creating item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /item/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /item/{id} (admin only). The body is multipart;
// any subset of the text fields may be supplied, plus an optional
// replacement image. Omitted fields keep their stored values.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	// Check existence before touching the upload store so a 404 never
	// leaves an orphaned file behind.
	prev, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if prev == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	patch := model.ItemPatch{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		PhoneNo:     r.FormValue("phoneno"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()

		result, err := imaging.Process(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "image must be a valid JPEG or PNG")
			return
		}
		patch.Image, err = h.Files.Save(result.Data, result.Ext)
		if err != nil {
			slog.Error("saving upload", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, id, patch)
	if err != nil || updated == nil {
		if patch.Image != "" {
			h.Files.Remove(patch.Image)
		}
		if err != nil {
			slog.Error("updating item", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to update item")
		} else {
			jsonError(w, http.StatusNotFound, "item not found")
		}
		return
	}

	// The replaced image is unreferenced now; clean it up.
	if patch.Image != "" && prev.Image != patch.Image {
		if err := h.Files.Remove(prev.Image); err != nil {
			slog.Warn("removing replaced image", "name", prev.Image, "error", err)
		}
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /item/{id} (admin only). Removal is permanent.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	deleted, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if deleted == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := h.Files.Remove(deleted.Image); err != nil {
		slog.Warn("removing deleted item image", "name", deleted.Image, "error", err)
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
}
