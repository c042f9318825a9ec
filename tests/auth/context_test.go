package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
)

func TestUserContext_Roles(t *testing.T) {
	u := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleSales, domain.RoleManager},
	}

	assert.True(t, u.HasRole(domain.RoleSales))
	assert.False(t, u.HasRole(domain.RoleAdmin))
	assert.True(t, u.HasAnyRole(domain.RoleAdmin, domain.RoleManager))
	assert.False(t, u.HasAnyRole(domain.RoleAdmin, domain.RoleViewer))
	assert.False(t, u.IsAdmin())
}

func TestUserContext_TeamAccess(t *testing.T) {
	t.Run("admin reaches every team", func(t *testing.T) {
		admin := &auth.UserContext{
			Roles:  []domain.UserRoleType{domain.RoleAdmin},
			TeamID: "team-1",
		}
		assert.True(t, admin.CanAccessTeam("team-1"))
		assert.True(t, admin.CanAccessTeam("team-2"))
		assert.Nil(t, admin.GetTeamFilter())
	})

	t.Run("non-admin is scoped to own team", func(t *testing.T) {
		sales := &auth.UserContext{
			Roles:  []domain.UserRoleType{domain.RoleSales},
			TeamID: "team-1",
		}
		assert.True(t, sales.CanAccessTeam("team-1"))
		assert.False(t, sales.CanAccessTeam("team-2"))

		filter := sales.GetTeamFilter()
		assert.NotNil(t, filter)
		assert.Equal(t, domain.TeamID("team-1"), *filter)
	})
}

func TestUserContext_Initials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Pat Sales", "PS"},
		{"Madonna", "M"},
		{"", ""},
		{"jean-luc picard", "JP"},
	}
	for _, tt := range tests {
		u := &auth.UserContext{DisplayName: tt.name}
		assert.Equal(t, tt.want, u.GetDisplayNameInitials())
	}
}

func TestGetEffectiveTeamFilter(t *testing.T) {
	teamOne := domain.TeamID("team-1")

	t.Run("explicit team filter wins", func(t *testing.T) {
		ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
			Roles:  []domain.UserRoleType{domain.RoleSales},
			TeamID: "team-2",
		})
		ctx = auth.WithTeamFilter(ctx, &auth.TeamFilter{TeamID: &teamOne})

		got := auth.GetEffectiveTeamFilter(ctx)
		assert.NotNil(t, got)
		assert.Equal(t, teamOne, *got)
	})

	t.Run("falls back to user's team", func(t *testing.T) {
		ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
			Roles:  []domain.UserRoleType{domain.RoleSales},
			TeamID: "team-2",
		})
		got := auth.GetEffectiveTeamFilter(ctx)
		assert.NotNil(t, got)
		assert.Equal(t, domain.TeamID("team-2"), *got)
	})

	t.Run("nil without any context", func(t *testing.T) {
		assert.Nil(t, auth.GetEffectiveTeamFilter(context.Background()))
	})
}
