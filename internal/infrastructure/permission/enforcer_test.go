package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/shared/authorization"
	"urbanincidents/internal/shared/logger"
)

func TestInitIncidentPermissions(t *testing.T) {
	enforcer, err := NewInMemoryEnforcer(logger.Nop())
	require.NoError(t, err)
	require.NoError(t, InitIncidentPermissions(enforcer, logger.Nop()))
	// Seeding twice is harmless.
	require.NoError(t, InitIncidentPermissions(enforcer, logger.Nop()))

	admin := authorization.RoleAdmin.String()
	citizen := authorization.RoleUser.String()

	tests := []struct {
		name     string
		role     string
		resource permission.Resource
		action   permission.Action
		allowed  bool
	}{
		{"admin sets state", admin, permission.ResourceIncident, permission.ActionSetState, true},
		{"admin deletes any incident", admin, permission.ResourceIncident, permission.ActionDeleteAny, true},
		{"admin creates type", admin, permission.ResourceIncidentType, permission.ActionCreate, true},
		{"admin deletes type", admin, permission.ResourceIncidentType, permission.ActionDelete, true},
		{"user reports incident", citizen, permission.ResourceIncident, permission.ActionCreate, true},
		{"user deletes own incident", citizen, permission.ResourceIncident, permission.ActionDeleteOwn, true},
		{"user cannot delete others", citizen, permission.ResourceIncident, permission.ActionDeleteAny, false},
		{"user cannot set state", citizen, permission.ResourceIncident, permission.ActionSetState, false},
		{"user cannot create type", citizen, permission.ResourceIncidentType, permission.ActionCreate, false},
		{"unknown role", "guest", permission.ResourceIncident, permission.ActionCreate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := enforcer.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestEnforcer_RemovePolicy(t *testing.T) {
	enforcer, err := NewInMemoryEnforcer(logger.Nop())
	require.NoError(t, err)

	require.NoError(t, enforcer.AddPolicy("user", permission.ResourceIncident, permission.ActionCreate))
	allowed, err := enforcer.Enforce("user", permission.ResourceIncident, permission.ActionCreate)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, enforcer.RemovePolicy("user", permission.ResourceIncident, permission.ActionCreate))
	allowed, err = enforcer.Enforce("user", permission.ResourceIncident, permission.ActionCreate)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.NoError(t, enforcer.LoadPolicy())
}

func TestEnforcer_PersistsPolicies(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	first, err := NewEnforcer(db, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, InitIncidentPermissions(first, logger.Nop()))

	second, err := NewEnforcer(db, logger.Nop())
	require.NoError(t, err)

	allowed, err := second.Enforce("admin", permission.ResourceIncident, permission.ActionSetState)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = second.Enforce("user", permission.ResourceIncident, permission.ActionSetState)
	require.NoError(t, err)
	assert.False(t, allowed)
}
