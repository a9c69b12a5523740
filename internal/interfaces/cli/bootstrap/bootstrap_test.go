package bootstrap

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanincidents/internal/application/incident/usecases"
	userUsecases "urbanincidents/internal/application/user/usecases"
	"urbanincidents/internal/shared/errors"
)

func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("URBANINCIDENTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("URBANINCIDENTS_DATABASE_PATH", filepath.Join(t.TempDir(), "urbanincidents.db"))
	t.Setenv("URBANINCIDENTS_LOGGER_LEVEL", "error")
	t.Setenv("URBANINCIDENTS_ADMIN_BCRYPT_COST", "4")
	t.Setenv("URBANINCIDENTS_CACHE_DRIVER", "memory")
}

func newTestApp(t *testing.T, opts *Options) *App {
	t.Helper()
	app, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNew_IncidentLifecycle(t *testing.T) {
	testEnv(t)
	ctx := context.Background()
	app := newTestApp(t, &Options{Env: "test", AutoMigrate: true})

	_, err := app.Users.RegisterUser(ctx, userUsecases.RegisterUserCommand{
		Email:     "ana@example.com",
		Name:      "Ana",
		Surname:   "García",
		BirthDate: "1990-05-17",
		Address:   "Calle Mayor 1",
		Phone:     "612345678",
		Password:  "s3cret",
	})
	require.NoError(t, err)

	ana, err := app.Caller(ctx, &Options{As: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	admin, err := app.Caller(ctx, &Options{As: "admin@admin.es", Password: "admin"})
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())

	report := func(lat, lng float32) (uint, error) {
		created, err := app.Incidents.CreateIncident(ctx, usecases.CreateIncidentCommand{
			Reporter:    ana,
			ReportedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			TypeName:    "Dirt",
			Description: "Overflowing bin",
			Location:    "Plaza Mayor",
			Latitude:    lat,
			Longitude:   lng,
			Department:  "Cleaning",
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	first, err := report(40.416775, -3.703790)
	require.NoError(t, err)

	_, err = report(40.41681991555875, -3.703731005258922)
	assert.True(t, errors.IsIncidentInProgressError(err))

	err = app.Incidents.DeleteType(ctx, usecases.DeleteTypeCommand{Caller: admin, Name: "Dirt"})
	assert.True(t, errors.IsInUseError(err))

	resolved, err := app.Incidents.SetState(ctx, usecases.SetIncidentStateCommand{Caller: admin, IncidentID: first, State: "RESOLVED"})
	require.NoError(t, err)
	assert.Equal(t, 1, resolved.Version)

	err = app.Incidents.DeleteIncident(ctx, usecases.DeleteIncidentCommand{Caller: ana, IncidentID: first})
	assert.True(t, errors.IsNotAuthorizedError(err))

	second, err := report(40.41681991555875, -3.703731005258922)
	require.NoError(t, err)

	mine, err := app.Incidents.ListUserIncidents(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, app.Incidents.DeleteIncident(ctx, usecases.DeleteIncidentCommand{Caller: ana, IncidentID: second}))
	_, err = app.Incidents.GetIncident(ctx, second)
	assert.True(t, errors.IsNotFoundError(err))

	pending, err := app.Incidents.SearchIncidents(ctx, usecases.SearchIncidentsQuery{State: "PENDING"})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNew_RedisCache(t *testing.T) {
	testEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("URBANINCIDENTS_CACHE_DRIVER", "redis")
	t.Setenv("URBANINCIDENTS_REDIS_HOST", mr.Host())
	t.Setenv("URBANINCIDENTS_REDIS_PORT", mr.Port())

	ctx := context.Background()
	app := newTestApp(t, &Options{Env: "test", AutoMigrate: true})

	types, err := app.Incidents.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
	assert.NotEmpty(t, mr.Keys(), "type list is cached in redis")

	admin, err := app.Caller(ctx, &Options{As: "admin@admin.es", Password: "admin"})
	require.NoError(t, err)
	_, err = app.Incidents.CreateType(ctx, usecases.CreateTypeCommand{Caller: admin, Name: "Graffiti"})
	require.NoError(t, err)

	types, err = app.Incidents.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 4)
}

func TestNew_RedisUnavailable(t *testing.T) {
	testEnv(t)
	t.Setenv("URBANINCIDENTS_CACHE_DRIVER", "redis")
	t.Setenv("URBANINCIDENTS_REDIS_HOST", "127.0.0.1")
	t.Setenv("URBANINCIDENTS_REDIS_PORT", "1")

	_, err := New(context.Background(), &Options{Env: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestCaller(t *testing.T) {
	testEnv(t)
	ctx := context.Background()
	app := newTestApp(t, &Options{Env: "test", AutoMigrate: true})

	_, err := app.Caller(ctx, &Options{})
	assert.True(t, errors.IsUnauthorizedError(err))

	_, err = app.Caller(ctx, &Options{As: "admin@admin.es", Password: "nope"})
	assert.True(t, errors.IsInvalidCredentialsError(err))
}

func TestPrint(t *testing.T) {
	v := map[string]any{"id": 1, "state": "PENDING"}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, OutputJSON, v))
	assert.Equal(t, "{\n  \"id\": 1,\n  \"state\": \"PENDING\"\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, "YAML", v))
	assert.Equal(t, "id: 1\nstate: PENDING\n", buf.String())

	buf.Reset()
	require.NoError(t, (&Options{}).Write(&buf, v))
	assert.Contains(t, buf.String(), `"state": "PENDING"`)

	err := Print(&buf, "xml", v)
	assert.True(t, errors.IsValidationError(err))
}
