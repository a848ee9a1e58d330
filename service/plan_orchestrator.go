package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitplanner-backend/logger"
	"fitplanner-backend/models"
	"fitplanner-backend/storage"

	"github.com/google/uuid"
)

var (
	ErrProfileIncomplete   = errors.New("profile is incomplete")
	ErrOperationInProgress = errors.New("operation already in progress")
	ErrSwapInProgress      = errors.New("another item is being swapped")
	ErrPlanChanged         = errors.New("plan changed while the request was running")
	ErrGenerationFailed    = errors.New("model returned an unusable response")
	ErrTopicRequired       = errors.New("topic is required")
)

// OperationError is returned by PlanOrchestrator operations. Message is the
// text recorded in the user's notice.
type OperationError struct {
	Err     error
	Message string
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

const (
	defaultNoticeDuration = 5 * time.Second
	defaultSessionTTL     = time.Hour
)

type planSession struct {
	mu     sync.Mutex
	kv     *storage.KVStore
	loaded bool
	state  PlanState
	// client holds the key the user supplied; never persisted
	client *GenerationClient

	// guarded by PlanOrchestrator.mu
	lastUsed time.Time
}

// busy reports whether a generation started from this session is still running
func (s *planSession) busy() bool {
	l := s.state.Loading
	return l.Plan || l.Grocery || l.Article || s.state.SwappingItem != ""
}

func (s *planSession) dispatch(a Action) {
	s.state = Reduce(s.state, a)
}

// load reads the persisted keys, falling back to defaults for anything
// missing or unreadable
func (s *planSession) load(ctx context.Context) {
	state := DefaultPlanState()

	var profile models.UserProfile
	if s.kv.Get(ctx, storage.KeyUserProfile, &profile) {
		state.Profile = profile
	}
	var workoutFilters models.WorkoutFilters
	if s.kv.Get(ctx, storage.KeyWorkoutFilters, &workoutFilters) {
		state.WorkoutFilters = workoutFilters
	}
	var dietFilters models.DietFilters
	if s.kv.Get(ctx, storage.KeyDietFilters, &dietFilters) {
		state.DietFilters = dietFilters
	}
	var plan models.CombinedPlan
	if s.kv.Get(ctx, storage.KeyCombinedPlan, &plan) && plan.WorkoutPlan != nil && plan.NutritionPlan != nil {
		state.Plan = &plan
	}
	var list models.GroceryList
	if s.kv.Get(ctx, storage.KeyGroceryList, &list) {
		state.GroceryList = &list
	}
	var summary string
	if s.kv.Get(ctx, storage.KeyPreviousPlanSummary, &summary) {
		state.PreviousPlanSummary = summary
	}

	s.state = state
	s.loaded = true
}

// PlanOrchestrator owns every user's planner state, sequences generation
// calls and persists their results.
//
// Sessions are cached in process and written through to the store, so one
// instance must own a given store. Running replicas against a shared redis or
// S3 backend serves stale state.
type PlanOrchestrator struct {
	store          *storage.KVStore
	client         *GenerationClient // server-wide fallback
	newClient      func() *GenerationClient
	noticeDuration time.Duration
	sessionTTL     time.Duration
	now            func() time.Time

	mu        sync.Mutex
	sessions  map[uuid.UUID]*planSession
	lastSweep time.Time
}

// PlanOrchestratorOption is a functional option for PlanOrchestrator
type PlanOrchestratorOption func(*PlanOrchestrator)

// OrchestratorWithStore sets the state store
func OrchestratorWithStore(store *storage.KVStore) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		o.store = store
	}
}

// OrchestratorWithGenerationClient sets the server-wide generation client,
// used by users who have not supplied their own key
func OrchestratorWithGenerationClient(client *GenerationClient) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		o.client = client
	}
}

// OrchestratorWithClientFactory sets how per-user generation clients are built
func OrchestratorWithClientFactory(newClient func() *GenerationClient) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		o.newClient = newClient
	}
}

// OrchestratorWithSessionTTL sets how long an idle session stays cached.
// Evicting a session forgets the key its user supplied.
func OrchestratorWithSessionTTL(d time.Duration) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		if d > 0 {
			o.sessionTTL = d
		}
	}
}

// OrchestratorWithNoticeDuration sets how long notices stay visible
func OrchestratorWithNoticeDuration(d time.Duration) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		if d > 0 {
			o.noticeDuration = d
		}
	}
}

// OrchestratorWithClock overrides time.Now
func OrchestratorWithClock(now func() time.Time) PlanOrchestratorOption {
	return func(o *PlanOrchestrator) {
		o.now = now
	}
}

// NewPlanOrchestrator creates a new plan orchestrator
func NewPlanOrchestrator(opts ...PlanOrchestratorOption) *PlanOrchestrator {
	o := &PlanOrchestrator{
		noticeDuration: defaultNoticeDuration,
		sessionTTL:     defaultSessionTTL,
		now:            time.Now,
		sessions:       make(map[uuid.UUID]*planSession),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = storage.NewKVStore(storage.NewMemoryStorage(), 0)
	}
	if o.client == nil {
		o.client = NewGenerationClient()
	}
	if o.newClient == nil {
		o.newClient = func() *GenerationClient { return NewGenerationClient() }
	}
	return o
}

// lock returns the user's session, loaded and locked
func (o *PlanOrchestrator) lock(ctx context.Context, userID uuid.UUID) *planSession {
	o.mu.Lock()
	now := o.now()
	o.evictIdleLocked(now)
	sess, ok := o.sessions[userID]
	if !ok {
		sess = &planSession{kv: o.store.Namespace("users/" + userID.String())}
		o.sessions[userID] = sess
	}
	sess.lastUsed = now
	o.mu.Unlock()

	sess.mu.Lock()
	if !sess.loaded {
		sess.load(ctx)
	}
	return sess
}

// evictIdleLocked drops sessions unused for sessionTTL. Sessions that are
// locked or have a generation in flight are kept. o.mu must be held.
func (o *PlanOrchestrator) evictIdleLocked(now time.Time) {
	if now.Sub(o.lastSweep) < o.sessionTTL/4 {
		return
	}
	o.lastSweep = now

	for id, sess := range o.sessions {
		if now.Sub(sess.lastUsed) < o.sessionTTL {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		if !sess.busy() {
			if sess.client != nil {
				sess.client.Reset()
			}
			delete(o.sessions, id)
			logger.Debug("evicted idle plan session", "user_id", id)
		}
		sess.mu.Unlock()
	}
}

// clientFor returns the user's own client when they supplied a key, the
// server-wide client otherwise. sess must be locked.
func (o *PlanOrchestrator) clientFor(sess *planSession) *GenerationClient {
	if sess.client != nil && sess.client.IsInitialized() {
		return sess.client
	}
	return o.client
}

// SetAPIKey initializes a generation client for this user only. An empty key
// clears the user's key and returns ErrEmptyAPIKey.
func (o *PlanOrchestrator) SetAPIKey(ctx context.Context, userID uuid.UUID, apiKey string) error {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	if sess.client == nil {
		sess.client = o.newClient()
	}
	if err := sess.client.Initialize(ctx, apiKey); err != nil {
		return err
	}
	logger.Info("api key set", "user_id", userID)
	return nil
}

// ClearAPIKey forgets the key this user supplied
func (o *PlanOrchestrator) ClearAPIKey(ctx context.Context, userID uuid.UUID) {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	if sess.client != nil {
		sess.client.Reset()
	}
}

// HasAPIKey reports whether generation requests from this user can run
func (o *PlanOrchestrator) HasAPIKey(ctx context.Context, userID uuid.UUID) bool {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	return o.clientFor(sess).IsInitialized()
}

// release unlocks sess and returns its state along with err
func release(sess *planSession, err error) (PlanState, error) {
	state := sess.state
	sess.mu.Unlock()
	return state, err
}

func (o *PlanOrchestrator) notice(kind NoticeKind, message string) Notice {
	return Notice{Kind: kind, Message: message, ExpiresAt: o.now().Add(o.noticeDuration)}
}

// reject records an error notice without touching loading flags
func (o *PlanOrchestrator) reject(sess *planSession, err error, message string) error {
	sess.dispatch(NoticeShown{Notice: o.notice(NoticeError, message)})
	return &OperationError{Err: err, Message: message}
}

func (o *PlanOrchestrator) failOperation(sess *planSession, class OperationClass, err error, message string) error {
	sess.dispatch(OperationFailed{Class: class, Notice: o.notice(NoticeError, message)})
	return &OperationError{Err: err, Message: message}
}

func (o *PlanOrchestrator) failSwap(sess *planSession, err error, message string) error {
	sess.dispatch(SwapFailed{Notice: o.notice(NoticeError, message)})
	return &OperationError{Err: err, Message: message}
}

func (o *PlanOrchestrator) expireNotice(sess *planSession) {
	if n := sess.state.Notice; n != nil && !o.now().Before(n.ExpiresAt) {
		sess.dispatch(NoticeDismissed{})
	}
}

// State returns the user's current state. Expired notices are dropped.
func (o *PlanOrchestrator) State(ctx context.Context, userID uuid.UUID) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	o.expireNotice(sess)
	return sess.state
}

// UpdateProfile replaces and persists the user profile
func (o *PlanOrchestrator) UpdateProfile(ctx context.Context, userID uuid.UUID, profile models.UserProfile) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	sess.dispatch(ProfileUpdated{Profile: profile})
	sess.kv.Set(ctx, storage.KeyUserProfile, profile)
	return sess.state
}

// UpdateWorkoutFilters replaces and persists the workout preferences
func (o *PlanOrchestrator) UpdateWorkoutFilters(ctx context.Context, userID uuid.UUID, filters models.WorkoutFilters) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	sess.dispatch(WorkoutFiltersUpdated{Filters: filters})
	sess.kv.Set(ctx, storage.KeyWorkoutFilters, filters)
	return sess.state
}

// UpdateDietFilters replaces and persists the diet preferences
func (o *PlanOrchestrator) UpdateDietFilters(ctx context.Context, userID uuid.UUID, filters models.DietFilters) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	sess.dispatch(DietFiltersUpdated{Filters: filters})
	sess.kv.Set(ctx, storage.KeyDietFilters, filters)
	return sess.state
}

// GeneratePlan generates a new plan, or refines the current one when the
// profile carries feedback
func (o *PlanOrchestrator) GeneratePlan(ctx context.Context, userID uuid.UUID) (PlanState, error) {
	sess := o.lock(ctx, userID)
	client := o.clientFor(sess)

	if !client.IsInitialized() {
		return release(sess, o.reject(sess, ErrClientNotInitialized, "Please set your API Key first in the settings below."))
	}
	if !sess.state.Profile.IsComplete() {
		return release(sess, o.reject(sess, ErrProfileIncomplete, "Please fill in all required profile fields."))
	}
	if sess.state.Loading.Plan {
		return release(sess, &OperationError{Err: ErrOperationInProgress, Message: "A plan is already being generated. Please wait for it to finish."})
	}

	profile := sess.state.Profile
	params := PlanGenerationParams{
		Profile:        profile,
		WorkoutFilters: sess.state.WorkoutFilters,
		DietFilters:    sess.state.DietFilters,
	}
	if strings.TrimSpace(profile.Feedback) != "" {
		params.Feedback = profile.Feedback
	}
	if sess.state.Plan != nil {
		params.PreviousPlanSummary = sess.state.PreviousPlanSummary
	}
	sess.dispatch(OperationStarted{Class: OperationPlan})
	sess.mu.Unlock()

	plan, err := client.GenerateFullPlan(ctx, params)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		return sess.state, o.failOperation(sess, OperationPlan, err, "Error: "+err.Error())
	}
	if plan == nil {
		return sess.state, o.failOperation(sess, OperationPlan, ErrGenerationFailed,
			"Failed to generate/refine plan. The AI model might have returned an unexpected response. Please try again or adjust your inputs.")
	}

	message := "Successfully generated your new plan! Check Workout & Nutrition tabs."
	if params.IsRefinement() {
		message = "Successfully refined your plan!"
	}
	summary := PlanSummary(plan, profile)
	sess.dispatch(PlanGenerated{Plan: plan, Summary: summary, Notice: o.notice(NoticeSuccess, message)})
	sess.kv.Set(ctx, storage.KeyCombinedPlan, plan)
	sess.kv.Set(ctx, storage.KeyPreviousPlanSummary, summary)

	logger.Info("plan generated", "user_id", userID, "refined", params.IsRefinement(), "recovery_days", plan.WorkoutPlan.RecoveryDays())
	return sess.state, nil
}

// GenerateGroceryList builds a grocery list from the current nutrition plan
func (o *PlanOrchestrator) GenerateGroceryList(ctx context.Context, userID uuid.UUID) (PlanState, error) {
	sess := o.lock(ctx, userID)
	client := o.clientFor(sess)

	if !client.IsInitialized() {
		return release(sess, o.reject(sess, ErrClientNotInitialized, "Please set your API Key first in the settings below."))
	}
	if sess.state.Plan == nil || sess.state.Plan.NutritionPlan == nil {
		return release(sess, o.reject(sess, ErrNoNutritionPlan, "Please generate a nutrition plan first."))
	}
	if sess.state.Loading.Grocery {
		return release(sess, &OperationError{Err: ErrOperationInProgress, Message: "A grocery list is already being generated. Please wait for it to finish."})
	}

	nutrition := sess.state.Plan.NutritionPlan
	revision := sess.state.NutritionRevision
	sess.dispatch(OperationStarted{Class: OperationGrocery})
	sess.mu.Unlock()

	list, err := client.GenerateGroceryList(ctx, nutrition)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		return sess.state, o.failOperation(sess, OperationGrocery, err, "Error generating grocery list. "+err.Error())
	}
	if list == nil {
		return sess.state, o.failOperation(sess, OperationGrocery, ErrGenerationFailed, "Failed to generate grocery list. Please try again.")
	}
	if sess.state.NutritionRevision != revision {
		return sess.state, o.failOperation(sess, OperationGrocery, ErrPlanChanged,
			"Your plan changed while the grocery list was being generated. Please try again.")
	}

	sess.dispatch(GroceryListGenerated{List: list, Notice: o.notice(NoticeSuccess, "Grocery list generated!")})
	sess.kv.Set(ctx, storage.KeyGroceryList, list)
	return sess.state, nil
}

// GenerateArticle generates an article on topic. Articles are not persisted.
func (o *PlanOrchestrator) GenerateArticle(ctx context.Context, userID uuid.UUID, topic string) (*models.EducationalArticle, PlanState, error) {
	sess := o.lock(ctx, userID)
	client := o.clientFor(sess)

	topic = strings.TrimSpace(topic)
	if topic == "" {
		state, err := release(sess, o.reject(sess, ErrTopicRequired, "Please choose a topic."))
		return nil, state, err
	}
	if !client.IsInitialized() {
		state, err := release(sess, o.reject(sess, ErrClientNotInitialized, "Gemini AI Client not initialized. Please set your API Key."))
		return nil, state, err
	}
	if sess.state.Loading.Article {
		state, err := release(sess, &OperationError{Err: ErrOperationInProgress, Message: "An article is already being generated. Please wait for it to finish."})
		return nil, state, err
	}
	sess.dispatch(OperationStarted{Class: OperationArticle})
	sess.mu.Unlock()

	article, err := client.GenerateArticle(ctx, topic)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		return nil, sess.state, o.failOperation(sess, OperationArticle, err, "Error generating article. "+err.Error())
	}
	if article == nil {
		return nil, sess.state, o.failOperation(sess, OperationArticle, ErrGenerationFailed, "Failed to generate article.")
	}

	sess.dispatch(ArticleGenerated{Notice: o.notice(NoticeSuccess, "Article generated!")})
	return article, sess.state, nil
}

// SwapExercise replaces one exercise of the current plan
func (o *PlanOrchestrator) SwapExercise(ctx context.Context, userID uuid.UUID, day, index int) (PlanState, error) {
	sess := o.lock(ctx, userID)
	client := o.clientFor(sess)

	if !client.IsInitialized() || sess.state.Plan == nil {
		cause := ErrNoPlan
		if !client.IsInitialized() {
			cause = ErrClientNotInitialized
		}
		return release(sess, o.reject(sess, cause, "Cannot swap exercise: API key not set or no plan loaded."))
	}
	if sess.state.SwappingItem != "" {
		return release(sess, o.reject(sess, ErrSwapInProgress, "Another item is already being swapped. Please wait for it to finish."))
	}
	workoutDay, exercise, err := ExerciseAt(sess.state.Plan, day, index)
	if err != nil {
		return release(sess, o.reject(sess, err, "Cannot swap exercise: day or exercise index is out of range."))
	}

	params := ExerciseSwapParams{
		Profile:        sess.state.Profile,
		WorkoutFilters: sess.state.WorkoutFilters,
		DietFilters:    sess.state.DietFilters,
		ExerciseToSwap: exercise,
		WorkoutDay:     workoutDay,
	}
	revision := sess.state.Revision
	sess.dispatch(SwapStarted{ItemID: fmt.Sprintf("exercise-%d-%d", day, index)})
	sess.mu.Unlock()

	replacement, err := client.GenerateExerciseSwap(ctx, params)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		return sess.state, o.failSwap(sess, err, "Error swapping exercise: "+err.Error())
	}
	if replacement == nil {
		return sess.state, o.failSwap(sess, ErrGenerationFailed, fmt.Sprintf(
			"Failed to swap %q. The AI might not have found a suitable alternative or returned an unexpected response.", exercise.Name))
	}
	if sess.state.Revision != revision {
		return sess.state, o.failSwap(sess, ErrPlanChanged, fmt.Sprintf(
			"Your plan changed while %q was being swapped. The swap was discarded.", exercise.Name))
	}

	updated, err := ReplaceExercise(sess.state.Plan, day, index, *replacement)
	if err != nil {
		return sess.state, o.failSwap(sess, err, "Error swapping exercise: "+err.Error())
	}

	message := fmt.Sprintf("Swapped %q for %q!", exercise.Name, replacement.Name)
	sess.dispatch(SwapSucceeded{Plan: updated, Notice: o.notice(NoticeSuccess, message)})
	sess.kv.Set(ctx, storage.KeyCombinedPlan, updated)
	return sess.state, nil
}

// SwapMeal replaces one meal of the current plan
func (o *PlanOrchestrator) SwapMeal(ctx context.Context, userID uuid.UUID, day, index int) (PlanState, error) {
	sess := o.lock(ctx, userID)
	client := o.clientFor(sess)

	if !client.IsInitialized() || sess.state.Plan == nil {
		cause := ErrNoPlan
		if !client.IsInitialized() {
			cause = ErrClientNotInitialized
		}
		return release(sess, o.reject(sess, cause, "Cannot swap meal: API key not set or no plan loaded."))
	}
	if sess.state.SwappingItem != "" {
		return release(sess, o.reject(sess, ErrSwapInProgress, "Another item is already being swapped. Please wait for it to finish."))
	}
	nutritionDay, meal, err := MealAt(sess.state.Plan, day, index)
	if err != nil {
		return release(sess, o.reject(sess, err, "Cannot swap meal: day or meal index is out of range."))
	}

	params := MealSwapParams{
		Profile:        sess.state.Profile,
		WorkoutFilters: sess.state.WorkoutFilters,
		DietFilters:    sess.state.DietFilters,
		MealToSwap:     meal,
		NutritionDay:   nutritionDay,
	}
	revision := sess.state.Revision
	sess.dispatch(SwapStarted{ItemID: fmt.Sprintf("meal-%d-%d", day, index)})
	sess.mu.Unlock()

	replacement, err := client.GenerateMealSwap(ctx, params)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		return sess.state, o.failSwap(sess, err, "Error swapping meal: "+err.Error())
	}
	if replacement == nil {
		return sess.state, o.failSwap(sess, ErrGenerationFailed, fmt.Sprintf(
			"Failed to swap %q. The AI might not have found a suitable alternative or returned an unexpected response.", meal.Name))
	}
	if sess.state.Revision != revision {
		return sess.state, o.failSwap(sess, ErrPlanChanged, fmt.Sprintf(
			"Your plan changed while %q was being swapped. The swap was discarded.", meal.Name))
	}

	updated, err := ReplaceMeal(sess.state.Plan, day, index, *replacement)
	if err != nil {
		return sess.state, o.failSwap(sess, err, "Error swapping meal: "+err.Error())
	}

	message := fmt.Sprintf("Successfully swapped %s for Day %d!", meal.Name, day+1)
	if sess.state.GroceryList != nil || sess.state.Loading.Grocery {
		message = fmt.Sprintf("Successfully swapped %s! Consider regenerating your grocery list.", meal.Name)
	}
	sess.dispatch(SwapSucceeded{Plan: updated, Nutrition: true, Notice: o.notice(NoticeSuccess, message)})
	sess.kv.Set(ctx, storage.KeyCombinedPlan, updated)
	return sess.state, nil
}

// ExportWorkoutPlan renders the current workout plan as text
func (o *PlanOrchestrator) ExportWorkoutPlan(ctx context.Context, userID uuid.UUID) (*Export, error) {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	if sess.state.Plan == nil || sess.state.Plan.WorkoutPlan == nil {
		return nil, o.reject(sess, ErrNoPlan, "No workout plan available to export.")
	}

	export := &Export{Filename: WorkoutExportFilename, Content: FormatWorkoutPlan(sess.state.Plan.WorkoutPlan)}
	sess.dispatch(NoticeShown{Notice: o.notice(NoticeSuccess, export.Filename+" exported successfully!")})
	return export, nil
}

// ExportNutritionPlan renders the current nutrition plan as text
func (o *PlanOrchestrator) ExportNutritionPlan(ctx context.Context, userID uuid.UUID) (*Export, error) {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	if sess.state.Plan == nil || sess.state.Plan.NutritionPlan == nil {
		return nil, o.reject(sess, ErrNoNutritionPlan, "No nutrition plan available to export.")
	}

	export := &Export{Filename: NutritionExportFilename, Content: FormatNutritionPlan(sess.state.Plan.NutritionPlan)}
	sess.dispatch(NoticeShown{Notice: o.notice(NoticeSuccess, export.Filename+" exported successfully!")})
	return export, nil
}

// DismissNotice clears the current notice
func (o *PlanOrchestrator) DismissNotice(ctx context.Context, userID uuid.UUID) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	sess.dispatch(NoticeDismissed{})
	return sess.state
}

// Reset deletes the plan, grocery list and summary. Profile and filters stay.
func (o *PlanOrchestrator) Reset(ctx context.Context, userID uuid.UUID) PlanState {
	sess := o.lock(ctx, userID)
	defer sess.mu.Unlock()

	sess.dispatch(PlanCleared{})
	sess.kv.Remove(ctx, storage.KeyCombinedPlan)
	sess.kv.Remove(ctx, storage.KeyGroceryList)
	sess.kv.Remove(ctx, storage.KeyPreviousPlanSummary)
	return sess.state
}
