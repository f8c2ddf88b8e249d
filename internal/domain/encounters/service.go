package encounters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"vet-patient-flow/internal/platform/logger"
	"vet-patient-flow/internal/platform/metrics"

	"github.com/google/uuid"
)

// transitionSources es la tabla cerrada de transiciones: desde qué estados
// se acepta cada operación. Todo lo que no está acá es ErrInvalidTransition.
var transitionSources = map[Transition][]State{
	TransitionReprioritize:          {StateWaiting},
	TransitionAdmitConsultation:     {StateWaiting},
	TransitionAdmitHospitalization:  {StateInConsultation},
	TransitionUpdateHospitalization: {StateHospitalized},
	TransitionReassignVet:           {StateInConsultation, StateHospitalized},
	TransitionUpdateNotes:           {StateWaiting, StateInConsultation, StateHospitalized},
	TransitionClose:                 {StateWaiting, StateInConsultation, StateHospitalized},
}

func allowedFrom(t Transition, st State) bool {
	for _, s := range transitionSources[t] {
		if s == st {
			return true
		}
	}
	return false
}

// Service es el motor de flujo: valida y aplica transiciones sobre encuentros.
// Es el único componente que escribe el estado de un Encounter.
type Service struct {
	repo     Repository
	gate     AuthorizationGate
	notifier NotificationHook
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, gate AuthorizationGate, notifier NotificationHook, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewFromEnv()
	}
	return &Service{
		repo:     repo,
		gate:     gate,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type ArriveInput struct {
	PatientID string
	ClinicID  string
	Reason    string
	Priority  Priority // opcional; default normal
}

// Arrive crea el encuentro en sala de espera.
// Regla: un paciente no puede tener dos encuentros activos a la vez.
func (s *Service) Arrive(ctx context.Context, actor Actor, in ArriveInput) (Encounter, error) {
	patientID := strings.TrimSpace(in.PatientID)
	clinicID := strings.TrimSpace(in.ClinicID)
	if patientID == "" || clinicID == "" {
		return Encounter{}, ErrMissingField
	}

	prio := in.Priority
	if prio == "" {
		prio = PriorityNormal
	}
	if !prio.valid() {
		return Encounter{}, ErrInvalidInput
	}

	now := s.now()
	e := Encounter{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		ClinicID:       clinicID,
		State:          StateWaiting,
		Priority:       prio,
		ReasonForVisit: strings.TrimSpace(in.Reason),
		ArrivedAt:      now,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if s.gate != nil && !s.gate.CanPerform(ctx, actor, TransitionArrive, e) {
		return Encounter{}, ErrUnauthorized
	}

	// Chequeo de duplicado antes de crear. El índice parcial de Postgres
	// (un activo por paciente) respalda esto ante dos Arrive concurrentes.
	prev, err := s.repo.GetActiveByPatient(ctx, patientID)
	if err == nil && prev.Active() {
		return Encounter{}, ErrDuplicateActiveEncounter
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Encounter{}, storeErr(err)
	}

	e.History = append(e.History, StateChange{
		To:      StateWaiting,
		At:      now,
		ActorID: actor.UserID,
		Detail:  e.ReasonForVisit,
	})

	if err := s.repo.Create(ctx, e); err != nil {
		return Encounter{}, storeErr(err)
	}

	metrics.RecordTransition(string(TransitionArrive), clinicID)
	return e, nil
}

// Reprioritize ajusta la prioridad de triaje. Solo en sala de espera:
// una vez que el paciente entró a consulta, la prioridad queda congelada.
func (s *Service) Reprioritize(ctx context.Context, actor Actor, id string, prio Priority) (Encounter, error) {
	if !prio.valid() {
		return Encounter{}, ErrInvalidInput
	}
	return s.apply(ctx, actor, id, TransitionReprioritize, func(now time.Time, e *Encounter) (string, error) {
		e.Priority = prio
		return "", nil
	})
}

// AdmitToConsultation pasa el paciente de sala de espera a consulta.
func (s *Service) AdmitToConsultation(ctx context.Context, actor Actor, id, vetID string) (Encounter, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return Encounter{}, ErrMissingField
	}
	return s.apply(ctx, actor, id, TransitionAdmitConsultation, func(now time.Time, e *Encounter) (string, error) {
		e.State = StateInConsultation
		e.ConsultationStartedAt = &now
		e.AssignedVetID = vetID
		return "", nil
	})
}

type HospitalizeInput struct {
	Reason              string
	ExpectedDischargeAt *time.Time
}

// AdmitToHospitalization interna al paciente desde consulta.
// Dispara el hook de notificación; si el hook falla, la transición queda igual.
func (s *Service) AdmitToHospitalization(ctx context.Context, actor Actor, id string, in HospitalizeInput) (Encounter, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Encounter{}, ErrMissingField
	}

	e, err := s.apply(ctx, actor, id, TransitionAdmitHospitalization, func(now time.Time, e *Encounter) (string, error) {
		e.State = StateHospitalized
		e.HospitalizedAt = &now
		e.ReasonForHospitalization = reason
		e.ExpectedDischargeAt = in.ExpectedDischargeAt
		return reason, nil
	})
	if err != nil {
		return Encounter{}, err
	}

	if s.notifier != nil {
		if nerr := s.notifier.OnHospitalized(ctx, e); nerr != nil {
			metrics.RecordNotification("error")
			s.log.Warn("hospitalization notification failed", map[string]any{
				"encounter_id": e.ID,
				"clinic_id":    e.ClinicID,
				"err":          nerr.Error(),
			})
		} else {
			metrics.RecordNotification("ok")
		}
	}
	return e, nil
}

type UpdateHospitalizationInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Procedures          *string
	Medication          *string
	Observations        *string
	PatientStatus       *string
	ExpectedDischargeAt *time.Time
}

// UpdateHospitalization actualiza campos clínicos y/o el alta estimada.
// No toca timestamps de transición.
func (s *Service) UpdateHospitalization(ctx context.Context, actor Actor, id string, in UpdateHospitalizationInput) (Encounter, error) {
	return s.apply(ctx, actor, id, TransitionUpdateHospitalization, func(now time.Time, e *Encounter) (string, error) {
		applyNotes(&e.Notes, in.Procedures, in.Medication, in.Observations, in.PatientStatus)
		if in.ExpectedDischargeAt != nil {
			e.ExpectedDischargeAt = in.ExpectedDischargeAt
		}
		return "", nil
	})
}

// ReassignVet cambia el veterinario asignado durante consulta u hospitalización.
func (s *Service) ReassignVet(ctx context.Context, actor Actor, id, vetID string) (Encounter, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return Encounter{}, ErrMissingField
	}
	return s.apply(ctx, actor, id, TransitionReassignVet, func(now time.Time, e *Encounter) (string, error) {
		e.AssignedVetID = vetID
		return "", nil
	})
}

type NotesInput struct {
	ReasonForVisit *string
	Procedures     *string
	Medication     *string
	Observations   *string
	PatientStatus  *string
}

// UpdateNotes completa notas clínicas. Válido en cualquier estado no cerrado.
func (s *Service) UpdateNotes(ctx context.Context, actor Actor, id string, in NotesInput) (Encounter, error) {
	return s.apply(ctx, actor, id, TransitionUpdateNotes, func(now time.Time, e *Encounter) (string, error) {
		if in.ReasonForVisit != nil {
			e.ReasonForVisit = strings.TrimSpace(*in.ReasonForVisit)
		}
		applyNotes(&e.Notes, in.Procedures, in.Medication, in.Observations, in.PatientStatus)
		return "", nil
	})
}

// Close cierra el encuentro: alta si venía de hospitalización,
// cancelación si el paciente se fue antes. Para el motor es la misma
// operación terminal; el estado previo queda en History.
func (s *Service) Close(ctx context.Context, actor Actor, id string) (Encounter, error) {
	return s.apply(ctx, actor, id, TransitionClose, func(now time.Time, e *Encounter) (string, error) {
		e.State = StateClosed
		e.ClosedAt = &now
		return "", nil
	})
}

// Get devuelve el encuentro con sus métricas derivadas al momento de la consulta.
func (s *Service) Get(ctx context.Context, id string) (Encounter, Metrics, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Encounter{}, Metrics{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Encounter{}, Metrics{}, storeErr(err)
	}
	return e, Project(e, s.now()), nil
}

// EncounterView es un encuentro más sus métricas calculadas al leer.
type EncounterView struct {
	Encounter Encounter
	Metrics   Metrics
}

// ListWaiting devuelve la sala de espera ordenada:
// prioridad primero, luego orden de llegada, luego id (orden total).
func (s *Service) ListWaiting(ctx context.Context, clinicID string) ([]EncounterView, error) {
	items, err := s.listByState(ctx, clinicID, StateWaiting)
	if err != nil {
		return nil, err
	}
	SortWaiting(items)
	return s.withMetrics(items), nil
}

// ListInConsultation devuelve las consultas en curso, por inicio de consulta.
func (s *Service) ListInConsultation(ctx context.Context, clinicID string) ([]EncounterView, error) {
	items, err := s.listByState(ctx, clinicID, StateInConsultation)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].ConsultationStartedAt, items[j].ConsultationStartedAt
		if ti == nil || tj == nil || ti.Equal(*tj) {
			return items[i].ID < items[j].ID
		}
		return ti.Before(*tj)
	})
	return s.withMetrics(items), nil
}

// ListHospitalized devuelve los internados, por fecha de internación.
func (s *Service) ListHospitalized(ctx context.Context, clinicID string) ([]EncounterView, error) {
	items, err := s.listByState(ctx, clinicID, StateHospitalized)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].HospitalizedAt, items[j].HospitalizedAt
		if ti == nil || tj == nil || ti.Equal(*tj) {
			return items[i].ID < items[j].ID
		}
		return ti.Before(*tj)
	})
	return s.withMetrics(items), nil
}

func (s *Service) listByState(ctx context.Context, clinicID string, st State) ([]Encounter, error) {
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByState(ctx, clinicID, st)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

func (s *Service) withMetrics(items []Encounter) []EncounterView {
	now := s.now()
	out := make([]EncounterView, 0, len(items))
	for _, e := range items {
		out = append(out, EncounterView{Encounter: e, Metrics: Project(e, now)})
	}
	return out
}

// apply es el paso común de toda transición sobre un encuentro existente:
// cargar, autorizar, validar estado origen, mutar, versionar y persistir.
// Si algo falla antes del Update, el encuentro queda sin tocar.
func (s *Service) apply(ctx context.Context, actor Actor, id string, t Transition, mutate func(now time.Time, e *Encounter) (string, error)) (Encounter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Encounter{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Encounter{}, storeErr(err)
	}

	if s.gate != nil && !s.gate.CanPerform(ctx, actor, t, e) {
		return Encounter{}, ErrUnauthorized
	}
	if !allowedFrom(t, e.State) {
		return Encounter{}, ErrInvalidTransition
	}

	now := s.now()
	prev := e.State
	expected := e.Version

	detail, err := mutate(now, &e)
	if err != nil {
		return Encounter{}, err
	}

	if e.State != prev {
		e.History = append(e.History, StateChange{
			From:    prev,
			To:      e.State,
			At:      now,
			ActorID: actor.UserID,
			Detail:  detail,
		})
	}
	e.Version = expected + 1
	e.UpdatedAt = now

	if err := s.repo.Update(ctx, e, expected); err != nil {
		return Encounter{}, storeErr(err)
	}

	metrics.RecordTransition(string(t), e.ClinicID)
	return e, nil
}

func applyNotes(n *ClinicalNotes, procedures, medication, observations, patientStatus *string) {
	if procedures != nil {
		n.Procedures = strings.TrimSpace(*procedures)
	}
	if medication != nil {
		n.Medication = strings.TrimSpace(*medication)
	}
	if observations != nil {
		n.Observations = strings.TrimSpace(*observations)
	}
	if patientStatus != nil {
		n.PatientStatus = strings.TrimSpace(*patientStatus)
	}
}

// storeErr deja pasar los errores de dominio y envuelve el resto como
// infraestructura: es lo único que el caller debería reintentar con backoff.
func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConcurrentModification) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
