package adaptor

import (
	"net/http"

	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/usecase"
	"golocal-spaces/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SpaceHandler struct {
	service usecase.SpaceService
	log     *zap.Logger
}

func NewSpaceHandler(service usecase.SpaceService, log *zap.Logger) *SpaceHandler {
	return &SpaceHandler{
		service: service,
		log:     log.With(zap.String("handler", "space")),
	}
}

// ListSpaces handles GET /api/spaces
func (h *SpaceHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListSpacesRequest{
		PaginatedRequest: paginationFromQuery(r),
		City:             query.Get("city"),
		State:            query.Get("state"),
		SpaceType:        query.Get("space_type"),
	}

	spaces, err := h.service.ListSpaces(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list spaces")
		return
	}

	utils.ResponseSuccess(w, "success", spaces)
}

// GetSpace handles GET /api/spaces/{id}
func (h *SpaceHandler) GetSpace(w http.ResponseWriter, r *http.Request) {
	space, err := h.service.GetSpace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get space")
		return
	}

	utils.ResponseSuccess(w, "success", space)
}

// CreateSpace handles POST /api/spaces
func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateSpaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	space, err := h.service.CreateSpace(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create space")
		return
	}

	utils.ResponseCreated(w, "Space created", space)
}

// UpdateSpace handles PUT /api/spaces/{id}
func (h *SpaceHandler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateSpaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	space, err := h.service.UpdateSpace(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update space")
		return
	}

	utils.ResponseSuccess(w, "Space updated", space)
}

// DeactivateSpace handles DELETE /api/spaces/{id}
func (h *SpaceHandler) DeactivateSpace(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeactivateSpace(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "deactivate space")
		return
	}

	utils.ResponseSuccess(w, "Space deactivated", nil)
}
