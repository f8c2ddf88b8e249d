package encounters

import "time"

// ClinicalNotes agrupa los campos clínicos de texto libre.
// Se pueden completar en cualquier estado no cerrado.
type ClinicalNotes struct {
	Procedures    string
	Medication    string
	Observations  string
	PatientStatus string
}

// StateChange es una entrada del historial de transiciones del encuentro.
// Se conserva para auditoría: al cerrar, el estado previo queda registrado acá.
type StateChange struct {
	From    State
	To      State
	At      time.Time
	ActorID string
	Detail  string
}

// Encounter representa una visita de un paciente a la clínica,
// desde que llega a sala de espera hasta el alta o cancelación.
type Encounter struct {
	ID        string
	PatientID string
	ClinicID  string

	State    State
	Priority Priority // editable solo en waiting; luego queda congelada

	ReasonForVisit           string
	ReasonForHospitalization string

	ArrivedAt             time.Time
	ConsultationStartedAt *time.Time
	HospitalizedAt        *time.Time
	ExpectedDischargeAt   *time.Time
	ClosedAt              *time.Time

	AssignedVetID string

	Notes   ClinicalNotes
	History []StateChange

	// Version se incrementa en cada escritura; dos transiciones concurrentes
	// sobre el mismo encuentro no pueden ganar ambas.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active indica si el encuentro sigue vivo (cuenta para el límite
// de un encuentro activo por paciente).
func (e Encounter) Active() bool {
	return e.State != StateClosed
}
