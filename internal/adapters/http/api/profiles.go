// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"sort"
)

// profileEntry is one catalog row with its cluster id made explicit.
type profileEntry struct {
	ClusterID   int    `json:"cluster_id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	ConceptTag  string `json:"concept_tag"`
}

// ProfilesHandler serves the cluster profile catalog.
type ProfilesHandler struct {
	deps Dependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps Dependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// HandleGetProfiles handles GET /profiles requests.
func (h *ProfilesHandler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	catalog := h.deps.Profiles(r.Context())
	entries := make([]profileEntry, 0, len(catalog))
	for id, p := range catalog {
		entries = append(entries, profileEntry{
			ClusterID:   id,
			Label:       p.Label,
			Description: p.Description,
			ConceptTag:  p.ConceptTag,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ClusterID < entries[j].ClusterID })
	writeJSON(w, http.StatusOK, entries)
}
