package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"checklists/internal/model"
	"checklists/internal/service"
)

type createTaskRequest struct {
	Title    string         `json:"title"`
	List     string         `json:"list"`
	ListID   string         `json:"listId"`
	DueDate  *time.Time     `json:"dueDate"`
	Priority model.Priority `json:"priority"`
	Notes    string         `json:"notes"`
	Labels   []string       `json:"labels"`
}

type updateTaskRequest struct {
	Title     *string         `json:"title"`
	Completed *bool           `json:"completed"`
	DueDate   optionalTime    `json:"dueDate"`
	Priority  *model.Priority `json:"priority"`
	Notes     *string         `json:"notes"`
	Labels    *[]string       `json:"labels"`
}

type reorderRequest struct {
	ListID  string   `json:"listId"`
	TodoIDs []string `json:"todoIds"`
}

// optionalTime tells an absent field apart from an explicit null.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := service.TaskQuery{ListID: r.URL.Query().Get("list")}
	if q.ListID == "" {
		q.ListID = r.URL.Query().Get("listId")
	}
	q.IncludeTrashed, _ = strconv.ParseBool(r.URL.Query().Get("includeTrashed"))

	tasks, err := s.tasks.ListTasks(r.Context(), userFrom(r), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(tasks))
}

func (s *Server) handleListTrashedTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTrashedTasks(r.Context(), userFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(tasks))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), userFrom(r), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	listID := req.ListID
	if listID == "" {
		listID = req.List
	}

	task, err := s.tasks.CreateTask(r.Context(), userFrom(r), service.TaskInput{
		Title:    req.Title,
		ListID:   listID,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    req.Notes,
		Labels:   req.Labels,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	upd := service.TaskUpdate{
		Title:     req.Title,
		Completed: req.Completed,
		Priority:  req.Priority,
		Notes:     req.Notes,
		Labels:    req.Labels,
	}
	if req.DueDate.Set {
		upd.DueDate = req.DueDate.Value
		upd.ClearDueDate = req.DueDate.Value == nil
	}

	task, err := s.tasks.UpdateTask(r.Context(), userFrom(r), mux.Vars(r)["id"], upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleSoftDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.SoftDeleteTask(r.Context(), userFrom(r), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Todo moved to trash")
}

func (s *Server) handleRestoreTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, id := userFrom(r), mux.Vars(r)["id"]
	if err := s.tasks.RestoreTask(ctx, userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	task, err := s.tasks.GetTask(ctx, userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handlePurgeTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.PurgeTask(r.Context(), userFrom(r), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Todo permanently deleted")
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	ctx := r.Context()
	userID := userFrom(r)
	if err := s.tasks.ReorderTasks(ctx, userID, req.ListID, req.TodoIDs); err != nil {
		respondError(w, r, err)
		return
	}
	tasks, err := s.tasks.ListTasks(ctx, userID, service.TaskQuery{ListID: req.ListID})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(tasks))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
