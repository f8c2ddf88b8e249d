package encounters

// State define los estados del ciclo de vida de un encuentro.
// @Enum waiting, in_consultation, hospitalized, closed
type State string

const (
	StateWaiting        State = "waiting"
	StateInConsultation State = "in_consultation"
	StateHospitalized   State = "hospitalized"
	StateClosed         State = "closed"
)

// Priority define la prioridad de triaje mientras el paciente espera.
// @Enum low, normal, high, urgent
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// rank: mayor = se atiende antes.
func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 1
	case PriorityLow:
		return 0
	default:
		return -1
	}
}

func (p Priority) valid() bool {
	return p.rank() >= 0
}

// Transition identifica cada operación del motor de flujo.
// El gate de autorización decide por transición, no por endpoint.
type Transition string

const (
	TransitionArrive                Transition = "arrive"
	TransitionReprioritize          Transition = "reprioritize"
	TransitionAdmitConsultation     Transition = "admit_consultation"
	TransitionAdmitHospitalization  Transition = "admit_hospitalization"
	TransitionUpdateHospitalization Transition = "update_hospitalization"
	TransitionReassignVet           Transition = "reassign_vet"
	TransitionUpdateNotes           Transition = "update_notes"
	TransitionClose                 Transition = "close"
)
