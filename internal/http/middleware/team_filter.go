package middleware

import (
	"net/http"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"go.uber.org/zap"
)

// TeamFilterMiddleware handles multi-tenant data isolation. It derives the
// effective team filter from the user's context and optionally lets admins
// narrow queries to a specific team.
type TeamFilterMiddleware struct {
	logger *zap.Logger
}

// NewTeamFilterMiddleware creates a new team filter middleware
func NewTeamFilterMiddleware(logger *zap.Logger) *TeamFilterMiddleware {
	return &TeamFilterMiddleware{
		logger: logger,
	}
}

// Filter sets the effective team filter in the request context.
// Admins can filter by ?team_id=<team>; regular users are always scoped to
// their own team regardless of the parameter.
func (m *TeamFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// No user context - authentication middleware should have
			// rejected unauthenticated requests already
			next.ServeHTTP(w, r)
			return
		}

		var filter *auth.TeamFilter

		if requested := r.URL.Query().Get("team_id"); requested != "" {
			teamID := domain.TeamID(requested)

			if !userCtx.CanAccessTeam(teamID) {
				m.logger.Warn("user attempted to access unauthorized team",
					zap.String("user_id", userCtx.UserID),
					zap.String("user_team", string(userCtx.TeamID)),
					zap.String("requested_team", requested),
				)
				http.Error(w, "Access denied: you cannot access data for this team", http.StatusForbidden)
				return
			}

			filter = &auth.TeamFilter{
				TeamID:           &teamID,
				RequestedByAdmin: userCtx.IsAdmin(),
			}
		} else if userCtx.TeamID != "" && !userCtx.IsAdmin() {
			teamID := userCtx.TeamID
			filter = &auth.TeamFilter{TeamID: &teamID}
		} else {
			// Admin without an explicit team sees all data
			filter = &auth.TeamFilter{}
		}

		ctx := auth.WithTeamFilter(r.Context(), filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
