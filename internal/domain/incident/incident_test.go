package incident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "urbanincidents/internal/domain/incident/valueobjects"
)

func testType(t *testing.T) *IncidentType {
	t.Helper()
	it, err := ReconstructIncidentType(1, "Dirt")
	require.NoError(t, err)
	return it
}

func TestNewIncident(t *testing.T) {
	coords := vo.MustCoordinate(40.416775, -3.703790)
	reportedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		typ         *IncidentType
		description string
		location    string
		department  string
		reporter    string
		wantErr     string
	}{
		{name: "valid", typ: testType(t), description: "Overflowing bin", location: "Plaza Mayor", department: "Cleaning", reporter: "ana@example.com"},
		{name: "missing type", typ: nil, description: "d", location: "l", department: "x", reporter: "r@example.com", wantErr: "type"},
		{name: "blank description", typ: testType(t), description: "  ", location: "l", department: "x", reporter: "r@example.com", wantErr: "description"},
		{name: "blank location", typ: testType(t), description: "d", location: "", department: "x", reporter: "r@example.com", wantErr: "location"},
		{name: "blank department", typ: testType(t), description: "d", location: "l", department: "", reporter: "r@example.com", wantErr: "department"},
		{name: "missing reporter", typ: testType(t), description: "d", location: "l", department: "x", reporter: "", wantErr: "reporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc, err := NewIncident(reportedAt, tt.typ, tt.description, tt.location, coords, tt.department, tt.reporter, []byte{0x1})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vo.StatePending, inc.State())
			assert.Equal(t, 0, inc.Version())
			assert.True(t, inc.IsNew())
			assert.True(t, inc.HasPhoto())
			assert.Equal(t, "Dirt", inc.TypeName())
			assert.Equal(t, reportedAt, inc.ReportedAt())
		})
	}
}

func TestIncident_ChangeStateIsUnrestricted(t *testing.T) {
	inc, err := NewIncident(time.Now(), testType(t), "d", "l", vo.MustCoordinate(1, 1), "dep", "r@example.com", nil)
	require.NoError(t, err)

	require.NoError(t, inc.ChangeState(vo.StateResolved))
	assert.Equal(t, vo.StateResolved, inc.State())

	require.NoError(t, inc.ChangeState(vo.StatePending))
	assert.Equal(t, vo.StatePending, inc.State())

	assert.Error(t, inc.ChangeState(vo.State("CLOSED")))
	assert.Equal(t, vo.StatePending, inc.State())
}

func TestIncident_IsNear(t *testing.T) {
	inc, err := NewIncident(time.Now(), testType(t), "d", "l", vo.MustCoordinate(40.416775, -3.703790), "dep", "r@example.com", nil)
	require.NoError(t, err)

	assert.True(t, inc.IsNear(vo.MustCoordinate(40.416775, -3.703790)))
	assert.True(t, inc.IsNear(vo.MustCoordinate(40.41681991555875, -3.703731005258922)))
	assert.False(t, inc.IsNear(vo.MustCoordinate(40.42, -3.70)))
}

func TestIncident_IdentityAndVersion(t *testing.T) {
	inc, err := NewIncident(time.Now(), testType(t), "d", "l", vo.MustCoordinate(1, 1), "dep", "r@example.com", nil)
	require.NoError(t, err)

	require.NoError(t, inc.SetID(7))
	assert.Error(t, inc.SetID(8))
	assert.Equal(t, uint(7), inc.ID())

	inc.IncrementVersion()
	inc.IncrementVersion()
	assert.Equal(t, 2, inc.Version())

	assert.True(t, inc.IsReportedBy("r@example.com"))
	assert.False(t, inc.IsReportedBy("other@example.com"))
	assert.False(t, inc.IsReportedBy(""))
}

func TestReconstructIncident_RejectsInvalidState(t *testing.T) {
	_, err := ReconstructIncident(1, time.Now(), 1, "Dirt", "d", "l", vo.MustCoordinate(0, 0), "dep", vo.State("OPEN"), "r@example.com", false, 0)
	assert.Error(t, err)
}

func TestNewIncidentType(t *testing.T) {
	_, err := NewIncidentType(" ")
	assert.Error(t, err)

	it, err := NewIncidentType("Graffiti")
	require.NoError(t, err)
	require.NoError(t, it.SetID(3))
	assert.Equal(t, uint(3), it.ID())
	assert.Equal(t, "Graffiti", it.Name())
}
