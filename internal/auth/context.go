package auth

import (
	"context"
	"strings"

	"github.com/pitchside/quote-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
	TeamID      domain.TeamID
}

type contextKey string

const userContextKey contextKey = "userContext"
const teamFilterKey contextKey = "teamFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an admin (has access to all teams)
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(domain.RoleAdmin)
}

// CanAccessTeam checks if user can access data for a specific team
func (u *UserContext) CanAccessTeam(teamID domain.TeamID) bool {
	if u.IsAdmin() {
		return true
	}
	return u.TeamID == teamID
}

// GetTeamFilter returns the team ID to filter queries by.
// Returns nil for admins (no filtering needed).
func (u *UserContext) GetTeamFilter() *domain.TeamID {
	if u.IsAdmin() {
		return nil
	}
	return &u.TeamID
}

// GetDisplayNameInitials returns initials from the display name (e.g., "John Doe" -> "JD")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	parts := strings.Fields(u.DisplayName)
	initials := ""
	for _, part := range parts {
		if len(part) > 0 {
			initials += strings.ToUpper(string(part[0]))
		}
	}
	return initials
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// TeamFilter represents the effective team filter for queries.
// This is set by middleware based on user context and query parameters.
type TeamFilter struct {
	// TeamID is the team to filter by (nil means no filter / all teams)
	TeamID *domain.TeamID
	// RequestedByAdmin indicates an admin explicitly requested a specific team
	RequestedByAdmin bool
}

// WithTeamFilter adds team filter to the context
func WithTeamFilter(ctx context.Context, filter *TeamFilter) context.Context {
	return context.WithValue(ctx, teamFilterKey, filter)
}

// TeamFilterFromContext extracts team filter from the context
func TeamFilterFromContext(ctx context.Context) (*TeamFilter, bool) {
	filter, ok := ctx.Value(teamFilterKey).(*TeamFilter)
	return filter, ok
}

// GetEffectiveTeamFilter returns the team ID to filter queries by.
// This should be used by repositories to apply multi-tenant filtering.
// Returns nil if no filtering should be applied.
func GetEffectiveTeamFilter(ctx context.Context) *domain.TeamID {
	if filter, ok := TeamFilterFromContext(ctx); ok && filter != nil {
		return filter.TeamID
	}
	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetTeamFilter()
	}
	return nil
}
