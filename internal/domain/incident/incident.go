package incident

import (
	"fmt"
	"strings"
	"time"

	vo "urbanincidents/internal/domain/incident/valueobjects"
)

// DuplicateRadiusMeters is the distance under which a new report is treated as
// the same physical incident as an open one.
const DuplicateRadiusMeters = 10.0

// Incident is a citizen report of an urban problem. The version field is the
// optimistic concurrency token; the store advances it on every committed write.
type Incident struct {
	id            uint
	reportedAt    time.Time
	typeID        uint
	typeName      string
	description   string
	location      string
	coordinates   vo.Coordinate
	department    string
	state         vo.State
	reporterEmail string
	photo         []byte
	hasPhoto      bool
	version       int
}

func NewIncident(
	reportedAt time.Time,
	incidentType *IncidentType,
	description string,
	location string,
	coordinates vo.Coordinate,
	department string,
	reporterEmail string,
	photo []byte,
) (*Incident, error) {
	if incidentType == nil || incidentType.ID() == 0 {
		return nil, fmt.Errorf("incident type is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("location is required")
	}
	if strings.TrimSpace(department) == "" {
		return nil, fmt.Errorf("department is required")
	}
	if strings.TrimSpace(reporterEmail) == "" {
		return nil, fmt.Errorf("reporter is required")
	}
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	return &Incident{
		reportedAt:    reportedAt,
		typeID:        incidentType.ID(),
		typeName:      incidentType.Name(),
		description:   description,
		location:      location,
		coordinates:   coordinates,
		department:    department,
		state:         vo.StatePending,
		reporterEmail: reporterEmail,
		photo:         photo,
		hasPhoto:      len(photo) > 0,
		version:       0,
	}, nil
}

// ReconstructIncident rebuilds an incident from persistence. The photo is not
// part of the row and is attached separately with AttachPhoto.
func ReconstructIncident(
	id uint,
	reportedAt time.Time,
	typeID uint,
	typeName string,
	description string,
	location string,
	coordinates vo.Coordinate,
	department string,
	state vo.State,
	reporterEmail string,
	hasPhoto bool,
	version int,
) (*Incident, error) {
	if id == 0 {
		return nil, fmt.Errorf("incident ID cannot be zero")
	}
	if typeID == 0 {
		return nil, fmt.Errorf("incident type ID cannot be zero")
	}
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid incident state: %s", state)
	}
	if version < 0 {
		return nil, fmt.Errorf("incident version cannot be negative")
	}

	return &Incident{
		id:            id,
		reportedAt:    reportedAt,
		typeID:        typeID,
		typeName:      typeName,
		description:   description,
		location:      location,
		coordinates:   coordinates,
		department:    department,
		state:         state,
		reporterEmail: reporterEmail,
		hasPhoto:      hasPhoto,
		version:       version,
	}, nil
}

func (i *Incident) ID() uint {
	return i.id
}

func (i *Incident) ReportedAt() time.Time {
	return i.reportedAt
}

func (i *Incident) TypeID() uint {
	return i.typeID
}

func (i *Incident) TypeName() string {
	return i.typeName
}

func (i *Incident) Description() string {
	return i.description
}

func (i *Incident) Location() string {
	return i.location
}

func (i *Incident) Coordinates() vo.Coordinate {
	return i.coordinates
}

func (i *Incident) Department() string {
	return i.department
}

func (i *Incident) State() vo.State {
	return i.state
}

func (i *Incident) ReporterEmail() string {
	return i.reporterEmail
}

// Photo returns the photo payload if it has been loaded.
func (i *Incident) Photo() []byte {
	return i.photo
}

func (i *Incident) HasPhoto() bool {
	return i.hasPhoto
}

func (i *Incident) Version() int {
	return i.version
}

func (i *Incident) IsNew() bool {
	return i.id == 0
}

func (i *Incident) SetID(id uint) error {
	if i.id != 0 {
		return fmt.Errorf("incident ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("incident ID cannot be zero")
	}
	i.id = id
	return nil
}

func (i *Incident) AttachPhoto(photo []byte) {
	i.photo = photo
	i.hasPhoto = len(photo) > 0
}

// ChangeState sets any defined state. Transition direction is not restricted.
func (i *Incident) ChangeState(state vo.State) error {
	if !state.IsValid() {
		return fmt.Errorf("invalid incident state: %s", state)
	}
	i.state = state
	return nil
}

// IncrementVersion is called by the store after a successful write.
func (i *Incident) IncrementVersion() {
	i.version++
}

func (i *Incident) IsReportedBy(email string) bool {
	return email != "" && i.reporterEmail == email
}

// IsNear reports whether c lies strictly within DuplicateRadiusMeters of the incident.
func (i *Incident) IsNear(c vo.Coordinate) bool {
	return vo.DistanceMeters(i.coordinates, c) < DuplicateRadiusMeters
}
