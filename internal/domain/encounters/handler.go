package encounters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-patient-flow/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/clinics/{clinicID}", func(cr chi.Router) {
		cr.Post("/encounters", arriveHandler(svc))
		cr.Get("/waiting-room", listWaitingHandler(svc))
		cr.Get("/consultations", listInConsultationHandler(svc))
		cr.Get("/hospitalizations", listHospitalizedHandler(svc))
	})

	r.Route("/encounters/{encounterID}", func(er chi.Router) {
		er.Get("/", getEncounterHandler(svc))
		er.Post("/reprioritize", reprioritizeHandler(svc))
		er.Post("/consultation", admitToConsultationHandler(svc))
		er.Post("/hospitalization", admitToHospitalizationHandler(svc))
		er.Patch("/hospitalization", updateHospitalizationHandler(svc))
		er.Post("/veterinarian", reassignVetHandler(svc))
		er.Patch("/notes", updateNotesHandler(svc))
		er.Post("/close", closeHandler(svc))
	})
}

// arriveRequest es el cuerpo para registrar la llegada de un paciente.
type arriveRequest struct {
	PatientID string `json:"patient_id"`
	Reason    string `json:"reason"`
	Priority  string `json:"priority" enums:"low,normal,high,urgent"` // opcional, default normal
}

type reprioritizeRequest struct {
	Priority string `json:"priority" enums:"low,normal,high,urgent"`
}

type consultationRequest struct {
	VeterinarianID string `json:"veterinarian_id"`
}

type hospitalizationRequest struct {
	Reason              string `json:"reason"`
	ExpectedDischargeAt string `json:"expected_discharge_at"` // RFC3339 opcional
}

type updateHospitalizationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Procedures          *string `json:"procedures"`
	Medication          *string `json:"medication"`
	Observations        *string `json:"observations"`
	PatientStatus       *string `json:"patient_status"`
	ExpectedDischargeAt *string `json:"expected_discharge_at"` // RFC3339
}

type notesRequest struct {
	ReasonForVisit *string `json:"reason_for_visit"`
	Procedures     *string `json:"procedures"`
	Medication     *string `json:"medication"`
	Observations   *string `json:"observations"`
	PatientStatus  *string `json:"patient_status"`
}

type stateChangeResponse struct {
	From    State     `json:"from,omitempty"`
	To      State     `json:"to"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// encounterResponse representa un encuentro devuelto por la API.
type encounterResponse struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	ClinicID  string `json:"clinic_id"`

	State    State    `json:"state"`
	Priority Priority `json:"priority"`

	ReasonForVisit           string `json:"reason_for_visit"`
	ReasonForHospitalization string `json:"reason_for_hospitalization,omitempty"`

	ArrivedAt             time.Time  `json:"arrived_at"`
	ConsultationStartedAt *time.Time `json:"consultation_started_at,omitempty"`
	HospitalizedAt        *time.Time `json:"hospitalized_at,omitempty"`
	ExpectedDischargeAt   *time.Time `json:"expected_discharge_at,omitempty"`
	ClosedAt              *time.Time `json:"closed_at,omitempty"`

	AssignedVetID string `json:"assigned_veterinarian_id,omitempty"`

	Procedures    string `json:"procedures,omitempty"`
	Medication    string `json:"medication,omitempty"`
	Observations  string `json:"observations,omitempty"`
	PatientStatus string `json:"patient_status,omitempty"`

	History []stateChangeResponse `json:"history,omitempty"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// metricsResponse son los tiempos derivados, calculados al momento de leer.
type metricsResponse struct {
	WaitMinutes                 int64    `json:"wait_minutes"`
	ConsultationMinutes         *int64   `json:"consultation_minutes,omitempty"`
	HospitalizationHours        *float64 `json:"hospitalization_hours,omitempty"`
	HoursUntilExpectedDischarge *float64 `json:"hours_until_expected_discharge,omitempty"`
	DischargeOverdue            bool     `json:"discharge_overdue"`
}

type viewResponse struct {
	Encounter encounterResponse `json:"encounter"`
	Metrics   metricsResponse   `json:"metrics"`
}

// arriveHandler godoc
// @Summary Registrar llegada de paciente
// @Description Crea un encuentro en sala de espera para el paciente indicado. Falla con 409 si el paciente ya tiene un encuentro activo. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags encounters
// @Accept json
// @Produce json
// @Param clinicID path string true "ID de la clínica"
// @Param payload body arriveRequest true "Datos de llegada; priority opcional (default normal)"
// @Success 201 {object} encounterResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "paciente con encuentro activo"
// @Router /clinics/{clinicID}/encounters [post]
func arriveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req arriveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Arrive(r.Context(), actor, ArriveInput{
			PatientID: req.PatientID,
			ClinicID:  chi.URLParam(r, "clinicID"),
			Reason:    req.Reason,
			Priority:  Priority(strings.TrimSpace(req.Priority)),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEncounterResponse(e))
	}
}

func reprioritizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req reprioritizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Reprioritize(r.Context(), actor, chi.URLParam(r, "encounterID"), Priority(strings.TrimSpace(req.Priority)))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func admitToConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req consultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.AdmitToConsultation(r.Context(), actor, chi.URLParam(r, "encounterID"), req.VeterinarianID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func admitToHospitalizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req hospitalizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var discharge *time.Time
		if strings.TrimSpace(req.ExpectedDischargeAt) != "" {
			t, err := time.Parse(time.RFC3339, req.ExpectedDischargeAt)
			if err != nil {
				http.Error(w, "expected_discharge_at must be RFC3339", http.StatusBadRequest)
				return
			}
			discharge = &t
		}

		e, err := svc.AdmitToHospitalization(r.Context(), actor, chi.URLParam(r, "encounterID"), HospitalizeInput{
			Reason:              req.Reason,
			ExpectedDischargeAt: discharge,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func updateHospitalizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req updateHospitalizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var discharge *time.Time
		if req.ExpectedDischargeAt != nil {
			t, err := time.Parse(time.RFC3339, *req.ExpectedDischargeAt)
			if err != nil {
				http.Error(w, "expected_discharge_at must be RFC3339", http.StatusBadRequest)
				return
			}
			discharge = &t
		}

		e, err := svc.UpdateHospitalization(r.Context(), actor, chi.URLParam(r, "encounterID"), UpdateHospitalizationInput{
			Procedures:          req.Procedures,
			Medication:          req.Medication,
			Observations:        req.Observations,
			PatientStatus:       req.PatientStatus,
			ExpectedDischargeAt: discharge,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func reassignVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req consultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.ReassignVet(r.Context(), actor, chi.URLParam(r, "encounterID"), req.VeterinarianID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func updateNotesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req notesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.UpdateNotes(r.Context(), actor, chi.URLParam(r, "encounterID"), NotesInput{
			ReasonForVisit: req.ReasonForVisit,
			Procedures:     req.Procedures,
			Medication:     req.Medication,
			Observations:   req.Observations,
			PatientStatus:  req.PatientStatus,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func closeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		e, err := svc.Close(r.Context(), actor, chi.URLParam(r, "encounterID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

func getEncounterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		e, m, err := svc.Get(r.Context(), chi.URLParam(r, "encounterID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, viewResponse{
			Encounter: toEncounterResponse(e),
			Metrics:   toMetricsResponse(m),
		})
	}
}

// listWaitingHandler godoc
// @Summary Sala de espera
// @Description Devuelve los encuentros en espera de la clínica, ordenados por prioridad y llegada, con sus tiempos de espera calculados al momento de la consulta.
// @Tags encounters
// @Produce json
// @Param clinicID path string true "ID de la clínica"
// @Success 200 {array} viewResponse
// @Failure 401 {string} string "unauthorized"
// @Router /clinics/{clinicID}/waiting-room [get]
func listWaitingHandler(svc *Service) http.HandlerFunc {
	return listHandler(svc.ListWaiting)
}

func listInConsultationHandler(svc *Service) http.HandlerFunc {
	return listHandler(svc.ListInConsultation)
}

func listHospitalizedHandler(svc *Service) http.HandlerFunc {
	return listHandler(svc.ListHospitalized)
}

func listHandler(list func(ctx context.Context, clinicID string) ([]EncounterView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		items, err := list(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]viewResponse, 0, len(items))
		for _, v := range items {
			out = append(out, viewResponse{
				Encounter: toEncounterResponse(v.Encounter),
				Metrics:   toMetricsResponse(v.Metrics),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func requireActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Actor{}, false
	}
	return Actor{
		UserID:   claims.UserID,
		ClinicID: claims.ClinicID,
		Role:     claims.Role,
	}, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "encounter not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDuplicateActiveEncounter),
		errors.Is(err, ErrConcurrentModification):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrStoreUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEncounterResponse(e Encounter) encounterResponse {
	history := make([]stateChangeResponse, 0, len(e.History))
	for _, h := range e.History {
		history = append(history, stateChangeResponse{
			From:    h.From,
			To:      h.To,
			At:      h.At,
			ActorID: h.ActorID,
			Detail:  h.Detail,
		})
	}

	return encounterResponse{
		ID:                       e.ID,
		PatientID:                e.PatientID,
		ClinicID:                 e.ClinicID,
		State:                    e.State,
		Priority:                 e.Priority,
		ReasonForVisit:           e.ReasonForVisit,
		ReasonForHospitalization: e.ReasonForHospitalization,
		ArrivedAt:                e.ArrivedAt,
		ConsultationStartedAt:    e.ConsultationStartedAt,
		HospitalizedAt:           e.HospitalizedAt,
		ExpectedDischargeAt:      e.ExpectedDischargeAt,
		ClosedAt:                 e.ClosedAt,
		AssignedVetID:            e.AssignedVetID,
		Procedures:               e.Notes.Procedures,
		Medication:               e.Notes.Medication,
		Observations:             e.Notes.Observations,
		PatientStatus:            e.Notes.PatientStatus,
		History:                  history,
		Version:                  e.Version,
		UpdatedAt:                e.UpdatedAt,
	}
}

func toMetricsResponse(m Metrics) metricsResponse {
	return metricsResponse{
		WaitMinutes:                 m.WaitMinutes,
		ConsultationMinutes:         m.ConsultationMinutes,
		HospitalizationHours:        m.HospitalizationHours,
		HoursUntilExpectedDischarge: m.HoursUntilExpectedDischarge,
		DischargeOverdue:            m.DischargeOverdue,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
