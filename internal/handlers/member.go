package handlers

//go:generate mockgen -source=member.go -destination=member_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// MemberLister lists circle members in payout order.
type MemberLister interface {
	Members(ctx context.Context, userID, circleID uuid.UUID) ([]models.CircleMember, error)
}

// MemberReorderer rewrites payout order.
type MemberReorderer interface {
	Reorder(ctx context.Context, actorID, circleID uuid.UUID, userIDs []uuid.UUID) ([]models.CircleMember, error)
}

// MemberRemover removes a member from a pending circle.
type MemberRemover interface {
	RemoveMember(ctx context.Context, actorID, circleID, memberID uuid.UUID) error
}

// ReorderRequest lists every current member in the desired payout order
// swagger:model ReorderRequest
type ReorderRequest struct {
	// User ids, first receives cycle 1
	// required: true
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1"`
}

// NewListMembersHandler returns an HTTP handler listing the members of a circle.
// @Summary List members
// @Tags members
// @Produce json
// @Param circleID path string true "Circle ID"
// @Success 200 {object} handlers.Response{data=[]models.CircleMember}
// @Failure 403 {object} handlers.ErrorResponse "Not a member"
// @Failure 404 {object} handlers.ErrorResponse "Circle not found"
// @Router /circles/{circleID}/members [get]
// @Security BearerAuth
func NewListMembersHandler(svc MemberLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		members, err := svc.Members(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "list members", err)
			return
		}

		writeJSON(w, http.StatusOK, "Members retrieved", members)
	}
}

// NewReorderMembersHandler returns an HTTP handler that sets the payout order of a pending circle.
// @Summary Reorder members
// @Tags members
// @Accept json
// @Produce json
// @Param circleID path string true "Circle ID"
// @Param request body handlers.ReorderRequest true "New order"
// @Success 200 {object} handlers.Response{data=[]models.CircleMember}
// @Failure 400 {object} handlers.ErrorResponse "Order does not match members"
// @Failure 403 {object} handlers.ErrorResponse "Not the host"
// @Router /circles/{circleID}/members/order [put]
// @Security BearerAuth
func NewReorderMembersHandler(svc MemberReorderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		var req ReorderRequest
		if !decode(w, r, &req) {
			return
		}

		members, err := svc.Reorder(r.Context(), userID, circleID, req.UserIDs)
		if err != nil {
			writeServiceError(w, "reorder members", err)
			return
		}

		writeJSON(w, http.StatusOK, "Payout order updated", members)
	}
}

// NewRemoveMemberHandler returns an HTTP handler that removes a member.
// Hosts remove others, members remove themselves.
// @Summary Remove member
// @Tags members
// @Produce json
// @Param circleID path string true "Circle ID"
// @Param userID path string true "Member user ID"
// @Success 200 {object} handlers.Response
// @Failure 400 {object} handlers.ErrorResponse "Circle not pending"
// @Failure 403 {object} handlers.ErrorResponse "Not allowed"
// @Failure 404 {object} handlers.ErrorResponse "Member not found"
// @Router /circles/{circleID}/members/{userID} [delete]
// @Security BearerAuth
func NewRemoveMemberHandler(svc MemberRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}
		memberID, ok := pathUUID(w, r, "userID")
		if !ok {
			return
		}

		if err := svc.RemoveMember(r.Context(), userID, circleID, memberID); err != nil {
			writeServiceError(w, "remove member", err)
			return
		}

		writeJSON(w, http.StatusOK, "Member removed", nil)
	}
}
