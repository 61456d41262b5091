// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/sensei/internal/domain/types"
)

// styleResponse is the compact shape for GET /predict/{id}: just the
// resolved learning style, without reasons or features.
type styleResponse struct {
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	LearningStyle string `json:"learning_style"`
	ClusterID     int    `json:"cluster_id"`
	Status        string `json:"status"`
}

// StyleHandler handles compact per-user style lookups.
type StyleHandler struct {
	deps Dependencies
}

// NewStyleHandler creates a new style handler.
func NewStyleHandler(deps Dependencies) *StyleHandler {
	return &StyleHandler{deps: deps}
}

// HandleGetStyle handles GET /predict/{user_id} requests.
func (h *StyleHandler) HandleGetStyle(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_style"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /predict/
	path := strings.TrimPrefix(r.URL.Path, "/predict/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	userID, err := strconv.ParseInt(path, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	p, err := h.deps.Predict(r.Context(), userID, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	status := http.StatusOK
	if p.Status == types.StatusNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, styleResponse{
		UserID:        p.UserID,
		Name:          p.DisplayName,
		LearningStyle: p.Label,
		ClusterID:     p.ClusterID,
		Status:        p.Status,
	})
}
