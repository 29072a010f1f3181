package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type listRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	includeTrashed, _ := strconv.ParseBool(r.URL.Query().Get("includeTrashed"))
	lists, err := s.lists.ListLists(r.Context(), userFrom(r), includeTrashed)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleListTrashedLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.ListTrashedLists(r.Context(), userFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.lists.GetList(r.Context(), userFrom(r), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	list, err := s.lists.CreateList(r.Context(), userFrom(r), req.Title)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	list, err := s.lists.UpdateListTitle(r.Context(), userFrom(r), mux.Vars(r)["id"], req.Title)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleSoftDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.SoftDeleteList(r.Context(), userFrom(r), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Checklist moved to trash")
}

func (s *Server) handleRestoreList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, id := userFrom(r), mux.Vars(r)["id"]
	if err := s.lists.RestoreList(ctx, userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	list, err := s.lists.GetList(ctx, userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handlePurgeList(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.PurgeList(r.Context(), userFrom(r), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Checklist permanently deleted")
}
