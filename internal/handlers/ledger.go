package handlers

//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
)

// Contributor pays the caller's contribution for the current cycle.
type Contributor interface {
	Contribute(ctx context.Context, userID, circleID uuid.UUID) (*services.ContributionResult, error)
}

// Claimer claims the payout of a fully funded cycle.
type Claimer interface {
	Claim(ctx context.Context, userID, circleID uuid.UUID) (*services.PayoutResult, error)
}

// NewContributeHandler returns an HTTP handler that debits the caller's wallet into the circle pool.
// @Summary Contribute
// @Description Pays the circle amount for the current cycle. At most once per member per cycle.
// @Tags ledger
// @Produce json
// @Param circleID path string true "Circle ID"
// @Success 201 {object} handlers.Response{data=services.ContributionResult}
// @Failure 400 {object} handlers.ErrorResponse "Circle not active"
// @Failure 402 {object} handlers.ErrorResponse "Insufficient funds"
// @Failure 403 {object} handlers.ErrorResponse "Not a member"
// @Failure 409 {object} handlers.ErrorResponse "Already contributed"
// @Router /circles/{circleID}/contribute [post]
// @Security BearerAuth
func NewContributeHandler(svc Contributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		result, err := svc.Contribute(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "contribute", err)
			return
		}

		writeJSON(w, http.StatusCreated, "Contribution recorded", result)
	}
}

// NewClaimHandler returns an HTTP handler that pays the pooled cycle amount to its recipient.
// @Summary Claim payout
// @Description Only the member whose payout order matches the cycle may claim, once the cycle is fully funded.
// @Tags ledger
// @Produce json
// @Param circleID path string true "Circle ID"
// @Success 200 {object} handlers.Response{data=services.PayoutResult}
// @Failure 400 {object} handlers.ErrorResponse "Cycle not complete"
// @Failure 403 {object} handlers.ErrorResponse "Not your turn"
// @Failure 409 {object} handlers.ErrorResponse "Already claimed"
// @Failure 500 {object} handlers.ErrorResponse "Ledger inconsistency"
// @Router /circles/{circleID}/claim [post]
// @Security BearerAuth
func NewClaimHandler(svc Claimer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		circleID, ok := pathUUID(w, r, "circleID")
		if !ok {
			return
		}

		result, err := svc.Claim(r.Context(), userID, circleID)
		if err != nil {
			writeServiceError(w, "claim payout", err)
			return
		}

		writeJSON(w, http.StatusOK, "Payout claimed", result)
	}
}
