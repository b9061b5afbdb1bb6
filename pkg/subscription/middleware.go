package subscription

import (
	"errors"
	"net/http"

	"github.com/wickandflame/wickandflame/core"
)

// limitExceededBody is the 403 payload rendered when the admission gate
// rejects a creation. It carries the live numbers so the client can show an
// accurate upgrade prompt.
type limitExceededBody struct {
	Error    string   `json:"error"`
	Resource Resource `json:"resource"`
	Current  int64    `json:"current"`
	Limit    int64    `json:"limit"`
}

// RequireCapacity returns middleware that gates resource-creating endpoints
// behind the admission check. Requests without an authenticated user get 401;
// a reached limit gets 403 with the current/limit numbers; resolution
// failures surface as 500 rather than silently admitting.
func RequireCapacity(ents *Entitlements, res Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				core.Error(w, core.ErrUnauthorized)
				return
			}

			_, err := ents.CheckLimit(r.Context(), userID, res)
			if err != nil {
				var limitErr *LimitExceededError
				if errors.As(err, &limitErr) {
					core.JSON(w, http.StatusForbidden, limitExceededBody{
						Error:    "plan_limit_reached",
						Resource: limitErr.Resource,
						Current:  limitErr.Current,
						Limit:    limitErr.Limit,
					})
					return
				}
				if errors.Is(err, ErrBusinessNotFound) || errors.Is(err, ErrSubscriptionNotFound) {
					core.Error(w, core.ErrNotFound)
					return
				}
				core.Error(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
