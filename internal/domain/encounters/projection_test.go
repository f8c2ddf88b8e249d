package encounters

import (
	"testing"
	"time"
)

func TestProject_WaitMinutes(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	e := Encounter{State: StateWaiting, ArrivedAt: t0}

	if m := Project(e, t0); m.WaitMinutes != 0 {
		t.Fatalf("expected 0 wait minutes at arrival, got %d", m.WaitMinutes)
	}
	if m := Project(e, t0.Add(10*time.Minute)); m.WaitMinutes != 10 {
		t.Fatalf("expected 10 wait minutes, got %d", m.WaitMinutes)
	}

	// Con consulta iniciada, la espera queda congelada en ese punto.
	started := t0.Add(10 * time.Minute)
	e.State = StateInConsultation
	e.ConsultationStartedAt = &started
	if m := Project(e, t0.Add(3*time.Hour)); m.WaitMinutes != 10 {
		t.Fatalf("expected frozen wait of 10 minutes, got %d", m.WaitMinutes)
	}
}

func TestProject_ConsultationMinutes(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	e := Encounter{State: StateWaiting, ArrivedAt: t0}
	if m := Project(e, t0.Add(time.Hour)); m.ConsultationMinutes != nil {
		t.Fatalf("expected nil consultation minutes before consultation")
	}

	started := t0.Add(10 * time.Minute)
	e.State = StateInConsultation
	e.ConsultationStartedAt = &started
	if m := Project(e, t0.Add(25*time.Minute)); m.ConsultationMinutes == nil || *m.ConsultationMinutes != 15 {
		t.Fatalf("expected 15 consultation minutes, got %v", m.ConsultationMinutes)
	}

	// Hospitalizado: la consulta termina en hospitalizedAt, no en now.
	admitted := t0.Add(40 * time.Minute)
	e.State = StateHospitalized
	e.HospitalizedAt = &admitted
	if m := Project(e, t0.Add(5*time.Hour)); m.ConsultationMinutes == nil || *m.ConsultationMinutes != 30 {
		t.Fatalf("expected 30 consultation minutes after hospitalization, got %v", m.ConsultationMinutes)
	}
}

func TestProject_HospitalizationAndDischarge(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	admitted := t0.Add(40 * time.Minute)
	discharge := admitted.Add(48 * time.Hour)

	e := Encounter{
		State:               StateHospitalized,
		ArrivedAt:           t0,
		HospitalizedAt:      &admitted,
		ExpectedDischargeAt: &discharge,
	}

	// Cerca del alta estimada, todavía en positivo.
	m := Project(e, admitted.Add(47*time.Hour+40*time.Minute))
	if m.HospitalizationHours == nil || *m.HospitalizationHours < 47.6 || *m.HospitalizationHours > 47.7 {
		t.Fatalf("unexpected hospitalization hours: %v", m.HospitalizationHours)
	}
	if m.HoursUntilExpectedDischarge == nil || *m.HoursUntilExpectedDischarge < 0.3 || *m.HoursUntilExpectedDischarge > 0.4 {
		t.Fatalf("unexpected hours until discharge: %v", m.HoursUntilExpectedDischarge)
	}
	if m.DischargeOverdue {
		t.Fatalf("discharge should not be overdue yet")
	}

	// Pasada el alta estimada: negativo y marcada como vencida.
	m = Project(e, admitted.Add(49*time.Hour))
	if m.HoursUntilExpectedDischarge == nil || *m.HoursUntilExpectedDischarge >= 0 {
		t.Fatalf("expected negative hours, got %v", m.HoursUntilExpectedDischarge)
	}
	if !m.DischargeOverdue {
		t.Fatalf("expected overdue flag")
	}

	// Cerrado: la internación termina en closedAt.
	closed := admitted.Add(50 * time.Hour)
	e.State = StateClosed
	e.ClosedAt = &closed
	m = Project(e, closed.Add(24*time.Hour))
	if m.HospitalizationHours == nil || *m.HospitalizationHours != 50 {
		t.Fatalf("expected 50 hospitalization hours after close, got %v", m.HospitalizationHours)
	}
}

func TestProject_IsPure(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	started := t0.Add(10 * time.Minute)
	e := Encounter{State: StateInConsultation, ArrivedAt: t0, ConsultationStartedAt: &started}

	now := t0.Add(30 * time.Minute)
	m1 := Project(e, now)
	m2 := Project(e, now)

	if m1.WaitMinutes != m2.WaitMinutes || *m1.ConsultationMinutes != *m2.ConsultationMinutes {
		t.Fatalf("same inputs produced different outputs: %#v vs %#v", m1, m2)
	}

	// Variar now solo mueve los tiempos transcurridos, no toca el encuentro.
	before := e
	_ = Project(e, now.Add(time.Hour))
	if before.State != e.State || !before.ArrivedAt.Equal(e.ArrivedAt) {
		t.Fatalf("Project mutated the encounter")
	}
}
