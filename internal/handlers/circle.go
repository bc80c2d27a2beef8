package handlers

//go:generate mockgen -source=circle.go -destination=circle_mock.go -package=handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
)

// CircleCreator creates circles.
type CircleCreator interface {
	Create(ctx context.Context, userID uuid.UUID, in services.CreateCircleInput) (*models.Circle, error)
}

// CircleLister lists the circles of a user.
type CircleLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Circle, error)
}

// CircleGetter reads one circle.
type CircleGetter interface {
	Get(ctx context.Context, userID, circleID uuid.UUID) (*models.Circle, error)
}

// ProgressGetter reports funding of the current cycle.
type ProgressGetter interface {
	Progress(ctx context.Context, userID, circleID uuid.UUID) (*models.CycleProgress, error)
}

// CircleUpdater patches a pending circle.
type CircleUpdater interface {
	Update(ctx context.Context, actorID, circleID uuid.UUID, in services.UpdateCircleInput) (*models.Circle, error)
}

// CircleJoiner joins a circle by invite code.
type CircleJoiner interface {
	Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*models.CircleMember, error)
}

// CircleStarter activates a pending circle.
type CircleStarter interface {
	Start(ctx context.Context, actorID, circleID uuid.UUID) (*models.Circle, []models.CircleMember, error)
}

// CreateCircleRequest represents the JSON body for creating a circle
// swagger:model CreateCircleRequest
type CreateCircleRequest struct {
	// Circle name
	// required: true
	// default: Office savings
	Name string `json:"name" validate:"required,max=100"`

	// Contribution per cycle in minor units
	// required: true
	// default: 500000
	Amount int64 `json:"amount" validate:"gt=0"`

	// weekly, biweekly or monthly
	// required: true
	// default: monthly
	Frequency models.Frequency `json:"frequency" validate:"required,oneof=weekly biweekly monthly"`

	// Members required before the circle can start
	// default: 5
	TargetMembers *int `json:"target_members" validate:"omitempty,min=2"`

	// fixed or random, defaults to fixed
	// default: fixed
	PayoutPreference models.PayoutPreference `json:"payout_preference" validate:"omitempty,oneof=fixed random"`
}

// UpdateCircleRequest represents the JSON body for patching a pending circle
// swagger:model UpdateCircleRequest
type UpdateCircleRequest struct {
	// New name
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`

	// New contribution per cycle in minor units
	Amount *int64 `json:"amount" validate:"omitempty,gt=0"`

	// New frequency
	Frequency *models.Frequency `json:"frequency" validate:"omitempty,oneof=weekly biweekly monthly"`

	// New member target
	TargetMembers *int `json:"target_members" validate:"omitempty,min=2"`

	// New payout preference
	PayoutPreference *models.PayoutPreference `json:"payout_preference" validate:"omitempty,oneof=fixed random"`
}

// CircleDetails is a circle with the funding state of its current cycle
// swagger:model CircleDetails
type CircleDetails struct {
	Circle   *models.Circle        `json:"circle"`
	Progress *models.CycleProgress `json:"progress"`
}

// StartedCircle is a freshly activated circle with its final payout order
// swagger:model StartedCircle
type StartedCircle struct {
	Circle  *models.Circle        `json:"circle"`
	Members []models.CircleMember `json:"members"`
}

// NewCreateCircleHandler returns an HTTP handler that creates a circle hosted by the caller.
// @Summary Create circle
// @Description Creates a pending circle. The caller becomes host with payout order 1.
// @Tags circles
// @Accept json
// @Produce json
// @Param request body handlers.CreateCircleRequest true "Circle"
// @Success 201 {object} handlers.Response{data=models.Circle}
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /circles [post]
// @Security BearerAuth
func NewCreateCircleHandler(svc CircleCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req CreateCircleRequest
		if !decode(w, r, &req) {
			return
		}
		if req.PayoutPreference == "" {
			req.PayoutPreference = models.PayoutPreferenceFixed
		}

		circle, err := svc.Create(r.Context(), userID, services.CreateCircleInput{
			Name:             strings.TrimSpace(req.Name),
			Amount:           req.Amount,
			Frequency:        req.Frequency,
			TargetMembers:    req.TargetMembers,
			PayoutPreference: req.PayoutPreference,
		})
		if err != nil {
			writeServiceError(w, "create circle", err)
			return
		}

		writeJSON(w, http.StatusCreated, "Circle created", circle)
	}
}

// NewListCirclesHandler returns an HTTP handler listing the caller's circles.
// @Summary List circles
// @Tags circles
// @Produce json
// @Success 200 {object} handlers.Response{data=[]models.Circle}
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /circles [get]
// @Security BearerAuth
func NewListCirclesHandler(svc CircleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		circles, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, "list circles", err)
			return
		}
		if circles == nil {
			circles = []models.Circle{}
		}

		writeJSON(w, http.StatusOK, "Circles retrieved", circles)
	}
}

// NewGetCircleHandler returns an HTTP handler for one circle and its current cycle progress.
// @Summary Get circle
// @Tags circles
// @Produce json
// @Param circleID path string true "Circle ID"
// @Success 200 {object} handlers.Response{data=handlers.CircleDetails}
// @Failure 403 {object} handlers.ErrorResponse "Not a member"
// @Failure 404 {object} handlers.ErrorResponse "Circle not found"
// @Router /circles/{circleID} [get]
// @Security BearerAuth
func NewGetCircleHandler(circles CircleGetter, progress ProgressGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		circle, err := circles.Get(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "get circle", err)
			return
		}
		p, err := progress.Progress(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "get progress", err)
			return
		}

		writeJSON(w, http.StatusOK, "Circle retrieved", CircleDetails{Circle: circle, Progress: p})
	}
}

// NewUpdateCircleHandler returns an HTTP handler that patches a pending circle.
// @Summary Update circle
// @Description Host only, pending circles only. Switching to fixed renumbers members by join date.
// @Tags circles
// @Accept json
// @Produce json
// @Param circleID path string true "Circle ID"
// @Param request body handlers.UpdateCircleRequest true "Fields to change"
// @Success 200 {object} handlers.Response{data=models.Circle}
// @Failure 400 {object} handlers.ErrorResponse "Invalid request or circle not pending"
// @Failure 403 {object} handlers.ErrorResponse "Not the host"
// @Failure 404 {object} handlers.ErrorResponse "Circle not found"
// @Router /circles/{circleID} [patch]
// @Security BearerAuth
func NewUpdateCircleHandler(svc CircleUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		var req UpdateCircleRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			req.Name = &name
		}

		circle, err := svc.Update(r.Context(), userID, circleID, services.UpdateCircleInput{
			Name:             req.Name,
			Amount:           req.Amount,
			Frequency:        req.Frequency,
			TargetMembers:    req.TargetMembers,
			PayoutPreference: req.PayoutPreference,
		})
		if err != nil {
			writeServiceError(w, "update circle", err)
			return
		}

		writeJSON(w, http.StatusOK, "Circle updated", circle)
	}
}

// NewJoinCircleHandler returns an HTTP handler that joins a circle by invite code.
// @Summary Join circle
// @Tags circles
// @Produce json
// @Param invite_code query string true "Invite code"
// @Success 201 {object} handlers.Response{data=models.CircleMember}
// @Failure 400 {object} handlers.ErrorResponse "Circle not pending"
// @Failure 404 {object} handlers.ErrorResponse "Unknown invite code"
// @Failure 409 {object} handlers.ErrorResponse "Already a member or circle full"
// @Router /circles/join [post]
// @Security BearerAuth
func NewJoinCircleHandler(svc CircleJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		code := strings.TrimSpace(r.URL.Query().Get("invite_code"))
		if code == "" {
			writeError(w, http.StatusBadRequest, "invite_code is required")
			return
		}

		member, err := svc.Join(r.Context(), userID, code)
		if err != nil {
			writeServiceError(w, "join circle", err)
			return
		}

		writeJSON(w, http.StatusCreated, "Joined circle", member)
	}
}

// NewStartCircleHandler returns an HTTP handler that activates a pending circle.
// @Summary Start circle
// @Description Host only. Finalizes payout order, random circles are shuffled once.
// @Tags circles
// @Produce json
// @Param circleID path string true "Circle ID"
// @Success 200 {object} handlers.Response{data=handlers.StartedCircle}
// @Failure 400 {object} handlers.ErrorResponse "Not pending or not enough members"
// @Failure 403 {object} handlers.ErrorResponse "Not the host"
// @Failure 404 {object} handlers.ErrorResponse "Circle not found"
// @Router /circles/{circleID}/start [post]
// @Security BearerAuth
func NewStartCircleHandler(svc CircleStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		circle, members, err := svc.Start(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "start circle", err)
			return
		}

		writeJSON(w, http.StatusOK, "Circle started", StartedCircle{Circle: circle, Members: members})
	}
}
