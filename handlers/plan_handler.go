package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fitplanner-backend/logger"
	"fitplanner-backend/models"
	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler exposes the planner operations for the authenticated user
type PlanHandler struct {
	orchestrator *service.PlanOrchestrator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(orchestrator *service.PlanOrchestrator) *PlanHandler {
	return &PlanHandler{orchestrator: orchestrator}
}

// ArticleRequest is the body of POST /api/plan/articles
type ArticleRequest struct {
	Topic string `json:"topic"`
}

// respondOperationError maps orchestrator errors to a status and code. The
// message is the notice text the user would see.
func respondOperationError(c *gin.Context, err error) {
	message := err.Error()
	var opErr *service.OperationError
	if errors.As(err, &opErr) {
		message = opErr.Message
	}

	switch {
	case errors.Is(err, service.ErrClientNotInitialized):
		respondError(c, http.StatusPreconditionFailed, "API_KEY_NOT_SET", message)
	case errors.Is(err, service.ErrProfileIncomplete):
		respondError(c, http.StatusBadRequest, "PROFILE_INCOMPLETE", message)
	case errors.Is(err, service.ErrNoPlan):
		respondError(c, http.StatusBadRequest, "NO_PLAN", message)
	case errors.Is(err, service.ErrNoNutritionPlan):
		respondError(c, http.StatusBadRequest, "NO_NUTRITION_PLAN", message)
	case errors.Is(err, service.ErrIndexOutOfRange):
		respondError(c, http.StatusBadRequest, "INDEX_OUT_OF_RANGE", message)
	case errors.Is(err, service.ErrTopicRequired):
		respondError(c, http.StatusBadRequest, "TOPIC_REQUIRED", message)
	case errors.Is(err, service.ErrOperationInProgress):
		respondError(c, http.StatusConflict, "OPERATION_IN_PROGRESS", message)
	case errors.Is(err, service.ErrSwapInProgress):
		respondError(c, http.StatusConflict, "SWAP_IN_PROGRESS", message)
	case errors.Is(err, service.ErrPlanChanged):
		respondError(c, http.StatusConflict, "PLAN_CHANGED", message)
	case errors.Is(err, service.ErrGenerationFailed):
		respondError(c, http.StatusUnprocessableEntity, "GENERATION_FAILED", message)
	default:
		logger.Error("generation request failed", "error", err)
		respondError(c, http.StatusBadGateway, "MODEL_ERROR", message)
	}
}

// GetState handles GET /api/plan/state
func (h *PlanHandler) GetState(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.orchestrator.State(c.Request.Context(), currentUserID(c)))
}

// UpdateProfile handles PUT /api/plan/profile
func (h *PlanHandler) UpdateProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondSuccess(c, http.StatusOK, h.orchestrator.UpdateProfile(c.Request.Context(), currentUserID(c), profile))
}

// UpdateWorkoutFilters handles PUT /api/plan/workout-filters
func (h *PlanHandler) UpdateWorkoutFilters(c *gin.Context) {
	var filters models.WorkoutFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondSuccess(c, http.StatusOK, h.orchestrator.UpdateWorkoutFilters(c.Request.Context(), currentUserID(c), filters))
}

// UpdateDietFilters handles PUT /api/plan/diet-filters
func (h *PlanHandler) UpdateDietFilters(c *gin.Context) {
	var filters models.DietFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondSuccess(c, http.StatusOK, h.orchestrator.UpdateDietFilters(c.Request.Context(), currentUserID(c), filters))
}

// GeneratePlan handles POST /api/plan/generate
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	state, err := h.orchestrator.GeneratePlan(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}

// GenerateGroceryList handles POST /api/plan/grocery-list
func (h *PlanHandler) GenerateGroceryList(c *gin.Context) {
	state, err := h.orchestrator.GenerateGroceryList(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}

// GenerateArticle handles POST /api/plan/articles
func (h *PlanHandler) GenerateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	article, _, err := h.orchestrator.GenerateArticle(c.Request.Context(), currentUserID(c), req.Topic)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, article)
}

// SwapExercise handles POST /api/plan/workout/days/:day/exercises/:index/swap
func (h *PlanHandler) SwapExercise(c *gin.Context) {
	day, index, ok := parseSlot(c)
	if !ok {
		return
	}

	state, err := h.orchestrator.SwapExercise(c.Request.Context(), currentUserID(c), day, index)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}

// SwapMeal handles POST /api/plan/nutrition/days/:day/meals/:index/swap
func (h *PlanHandler) SwapMeal(c *gin.Context) {
	day, index, ok := parseSlot(c)
	if !ok {
		return
	}

	state, err := h.orchestrator.SwapMeal(c.Request.Context(), currentUserID(c), day, index)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, state)
}

// ExportWorkout handles GET /api/plan/export/workout
func (h *PlanHandler) ExportWorkout(c *gin.Context) {
	export, err := h.orchestrator.ExportWorkoutPlan(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	sendExport(c, export)
}

// ExportNutrition handles GET /api/plan/export/nutrition
func (h *PlanHandler) ExportNutrition(c *gin.Context) {
	export, err := h.orchestrator.ExportNutritionPlan(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	sendExport(c, export)
}

// DismissNotice handles DELETE /api/plan/notice
func (h *PlanHandler) DismissNotice(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.orchestrator.DismissNotice(c.Request.Context(), currentUserID(c)))
}

// Reset handles DELETE /api/plan
func (h *PlanHandler) Reset(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.orchestrator.Reset(c.Request.Context(), currentUserID(c)))
}

func parseSlot(c *gin.Context) (day, index int, ok bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DAY", "Day must be an integer")
		return 0, 0, false
	}
	index, err = strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INDEX", "Index must be an integer")
		return 0, 0, false
	}
	return day, index, true
}

func sendExport(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Content))
}
