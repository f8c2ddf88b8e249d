package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-patient-flow/internal/domain/encounters"
)

type recordingNotifier struct {
	hospitalized []string
}

func (n *recordingNotifier) OnHospitalized(_ context.Context, e encounters.Encounter) error {
	n.hospitalized = append(n.hospitalized, e.ID)
	return nil
}

type encounterJSON struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Priority string `json:"priority"`
	Version  int64  `json:"version"`
}

type viewJSON struct {
	Encounter encounterJSON `json:"encounter"`
	Metrics   struct {
		WaitMinutes int64 `json:"wait_minutes"`
	} `json:"metrics"`
}

func doRequest(t *testing.T, h http.Handler, method, path, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		req.Header.Set("X-Debug-User-ID", "user-"+role)
		req.Header.Set("X-Debug-Role", role)
		req.Header.Set("X-Debug-Clinic-ID", "clinic-1")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
}

func TestRouter_FullPatientFlow(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewRouter(Options{Notifier: notifier})

	// Llegada: la recepción registra al paciente.
	rec := doRequest(t, h, http.MethodPost, "/clinics/clinic-1/encounters", "reception", map[string]any{
		"patient_id": "patient-42",
		"reason":     "vomiting since yesterday",
		"priority":   "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("arrive: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created encounterJSON
	decode(t, rec, &created)
	if created.State != "waiting" || created.Priority != "high" || created.Version != 1 {
		t.Fatalf("unexpected created encounter: %#v", created)
	}

	// Aparece en sala de espera.
	rec = doRequest(t, h, http.MethodGet, "/clinics/clinic-1/waiting-room", "reception", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("waiting-room: expected 200, got %d", rec.Code)
	}
	var waiting []viewJSON
	decode(t, rec, &waiting)
	if len(waiting) != 1 || waiting[0].Encounter.ID != created.ID {
		t.Fatalf("unexpected waiting room: %#v", waiting)
	}

	// Pasa a consulta con un veterinario asignado.
	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/consultation", "vet", map[string]any{
		"veterinarian_id": "vet-7",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("consultation: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Internación: dispara la notificación.
	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/hospitalization", "vet", map[string]any{
		"reason":                "needs IV fluids overnight",
		"expected_discharge_at": "2026-03-11T09:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("hospitalization: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(notifier.hospitalized) != 1 || notifier.hospitalized[0] != created.ID {
		t.Fatalf("expected one hospitalization notification, got %#v", notifier.hospitalized)
	}

	// Actualización del registro de internación.
	rec = doRequest(t, h, http.MethodPatch, "/encounters/"+created.ID+"/hospitalization", "vet", map[string]any{
		"medication":     "maropitant 1mg/kg",
		"patient_status": "stable",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update hospitalization: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Cierre y verificación de estado final.
	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/close", "vet", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var closed encounterJSON
	decode(t, rec, &closed)
	if closed.State != "closed" {
		t.Fatalf("expected closed state, got %s", closed.State)
	}

	// Cerrar dos veces es conflicto.
	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/close", "vet", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second close: expected 409, got %d", rec.Code)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	h := NewRouter(Options{})

	rec := doRequest(t, h, http.MethodPost, "/clinics/clinic-1/encounters", "", map[string]any{
		"patient_id": "patient-42",
		"reason":     "checkup",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
}

func TestRouter_RoleGateForbidsHospitalizationByReception(t *testing.T) {
	h := NewRouter(Options{})

	rec := doRequest(t, h, http.MethodPost, "/clinics/clinic-1/encounters", "reception", map[string]any{
		"patient_id": "patient-9",
		"reason":     "limping",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("arrive: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created encounterJSON
	decode(t, rec, &created)

	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/consultation", "vet", map[string]any{
		"veterinarian_id": "vet-7",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("consultation: expected 200, got %d", rec.Code)
	}

	// La recepción no puede internar pacientes.
	rec = doRequest(t, h, http.MethodPost, "/encounters/"+created.ID+"/hospitalization", "reception", map[string]any{
		"reason": "observation",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for reception hospitalizing, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_DuplicateActiveEncounterConflict(t *testing.T) {
	h := NewRouter(Options{})

	body := map[string]any{"patient_id": "patient-42", "reason": "checkup"}
	if rec := doRequest(t, h, http.MethodPost, "/clinics/clinic-1/encounters", "reception", body); rec.Code != http.StatusCreated {
		t.Fatalf("first arrive: expected 201, got %d", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodPost, "/clinics/clinic-1/encounters", "reception", body); rec.Code != http.StatusConflict {
		t.Fatalf("second arrive: expected 409, got %d", rec.Code)
	}
}

func TestRouter_HealthAndUnknownEncounter(t *testing.T) {
	h := NewRouter(Options{})

	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/encounters/nope/", "vet", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown encounter: expected 404, got %d", rec.Code)
	}
}
