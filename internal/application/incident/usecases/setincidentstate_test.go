package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

func TestSetIncidentStateUseCase_Transitions(t *testing.T) {
	tests := []struct {
		from vo.State
		to   string
	}{
		{vo.StatePending, "UNDER_REVIEW"},
		{vo.StatePending, "RESOLVED"},
		{vo.StateUnderReview, "PENDING"},
		{vo.StateResolved, "PENDING"},
		{vo.StateResolved, "RESOLVED"},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to, func(t *testing.T) {
			store := newMemStore()
			id := seedIncident(t, store, testType(t, 1, "Dirt"), "ana@example.com", madrid, tt.from)
			before, err := store.FindByID(context.Background(), id)
			require.NoError(t, err)

			uc := NewSetIncidentStateUseCase(store, &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())
			result, err := uc.Execute(context.Background(), SetIncidentStateCommand{
				Caller: testAdmin(t), IncidentID: id, State: tt.to,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.to, result.State)
			assert.Equal(t, before.Version()+1, result.Version)

			after, err := store.FindByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.to, after.State().String())
		})
	}
}

func TestSetIncidentStateUseCase_DeniedBeforeStoreAccess(t *testing.T) {
	store := newMemStore()
	loads := 0
	store.onLoad = func(uint) { loads++ }

	uc := NewSetIncidentStateUseCase(store, &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())

	// The incident does not exist; the caller still learns nothing but "denied".
	_, err := uc.Execute(context.Background(), SetIncidentStateCommand{
		Caller: testCitizen(t, "ana@example.com"), IncidentID: 99, State: "RESOLVED",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotAuthorizedError(err))
	assert.Zero(t, loads)

	_, err = uc.Execute(context.Background(), SetIncidentStateCommand{IncidentID: 99, State: "RESOLVED"})
	assert.True(t, errors.IsNotAuthorizedError(err))
}

func TestSetIncidentStateUseCase_InvalidState(t *testing.T) {
	store := newMemStore()
	id := seedIncident(t, store, testType(t, 1, "Dirt"), "ana@example.com", madrid, vo.StatePending)

	uc := NewSetIncidentStateUseCase(store, &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())
	for _, state := range []string{"", "CLOSED", "DONE"} {
		_, err := uc.Execute(context.Background(), SetIncidentStateCommand{Caller: testAdmin(t), IncidentID: id, State: state})
		assert.True(t, errors.IsValidationError(err), "state %q", state)
	}

	current, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Version())
}

func TestSetIncidentStateUseCase_NotFound(t *testing.T) {
	uc := NewSetIncidentStateUseCase(newMemStore(), &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())

	_, err := uc.Execute(context.Background(), SetIncidentStateCommand{Caller: testAdmin(t), IncidentID: 7, State: "RESOLVED"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSetIncidentStateUseCase_ConcurrentUpdatesBothLand(t *testing.T) {
	store := newMemStore()
	id := seedIncident(t, store, testType(t, 1, "Dirt"), "ana@example.com", madrid, vo.StatePending)

	// Hold both writers until each has read version 0.
	var (
		loaded  atomic.Int32
		barrier sync.WaitGroup
	)
	barrier.Add(2)
	store.onLoad = func(uint) {
		if loaded.Add(1) <= 2 {
			barrier.Done()
			barrier.Wait()
		}
	}

	uc := NewSetIncidentStateUseCase(store, &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())
	admin := testAdmin(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, state := range []string{"UNDER_REVIEW", "RESOLVED"} {
		wg.Add(1)
		go func(i int, state string) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), SetIncidentStateCommand{Caller: admin, IncidentID: id, State: state})
		}(i, state)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, store.conflicts())

	final, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, final.Version())
	assert.Contains(t, []vo.State{vo.StateUnderReview, vo.StateResolved}, final.State())
}

func TestSetIncidentStateUseCase_RetriesExhausted(t *testing.T) {
	store := newMemStore()
	id := seedIncident(t, store, testType(t, 1, "Dirt"), "ana@example.com", madrid, vo.StatePending)
	store.beforeWrite = func(uint) { store.forceState(id, vo.StateUnderReview) }

	uc := NewSetIncidentStateUseCase(store, &passthroughTx{}, defaultEnforcer(), fastRetry(), logger.Nop())
	_, err := uc.Execute(context.Background(), SetIncidentStateCommand{Caller: testAdmin(t), IncidentID: id, State: "RESOLVED"})

	assert.True(t, errors.IsConcurrencyExhaustedError(err))
	assert.Equal(t, fastRetry().MaxAttempts, store.conflicts())
}
