package api

import (
	"net/http"

	"github.com/pardinian/studypath-api/internal/api/shared"
	"github.com/pardinian/studypath-api/internal/domain"
	"github.com/pardinian/studypath-api/internal/service"
)

// GoalHandler handles learning goal and task endpoints.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a GoalHandler backed by the given service.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoal handles POST /goals.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	goal, err := h.goalService.CreateGoal(r.Context(), userID, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// ListGoals handles GET /goals.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	goals, err := h.goalService.ListGoals(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// DeleteGoal handles DELETE /goals/{goalID}.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "goalID")
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(r.Context(), userID, goalID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTask handles POST /goals/{goalID}/tasks.
func (h *GoalHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "goalID")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.goalService.CreateTask(r.Context(), userID, goalID, req.Title, req.Metadata)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /goals/{goalID}/tasks.
func (h *GoalHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "goalID")
	if !ok {
		return
	}

	tasks, err := h.goalService.ListTasks(r.Context(), userID, goalID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CompleteTask handles POST /goals/{goalID}/tasks/{taskID}/complete.
// Completing the last open task also completes the goal, which the
// response reports so clients can update both views.
func (h *GoalHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := requireUserAndPathUUID(w, r, "goalID")
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "taskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, goalCompleted, err := h.goalService.CompleteTask(r.Context(), userID, goalID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompleteTaskResponse{
		Task:          task,
		GoalCompleted: goalCompleted,
	})
}
