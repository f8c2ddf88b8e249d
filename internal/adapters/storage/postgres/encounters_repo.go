package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"vet-patient-flow/internal/domain/encounters"
)

// Tabla esperada:
//
//	CREATE TABLE encounters (
//	    id TEXT PRIMARY KEY,
//	    patient_id TEXT NOT NULL,
//	    clinic_id TEXT NOT NULL,
//	    state TEXT NOT NULL,
//	    priority TEXT NOT NULL,
//	    reason_for_visit TEXT NOT NULL DEFAULT '',
//	    reason_for_hospitalization TEXT NOT NULL DEFAULT '',
//	    arrived_at TIMESTAMPTZ NOT NULL,
//	    consultation_started_at TIMESTAMPTZ,
//	    hospitalized_at TIMESTAMPTZ,
//	    expected_discharge_at TIMESTAMPTZ,
//	    closed_at TIMESTAMPTZ,
//	    assigned_vet_id TEXT NOT NULL DEFAULT '',
//	    procedures TEXT NOT NULL DEFAULT '',
//	    medication TEXT NOT NULL DEFAULT '',
//	    observations TEXT NOT NULL DEFAULT '',
//	    patient_status TEXT NOT NULL DEFAULT '',
//	    history JSONB NOT NULL DEFAULT '[]',
//	    version BIGINT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	-- Un solo encuentro activo por paciente, reforzado también en DB:
//	CREATE UNIQUE INDEX encounters_one_active_per_patient
//	    ON encounters (patient_id) WHERE state <> 'closed';
type EncountersRepo struct {
	db *sql.DB
}

func NewEncountersRepo(db *sql.DB) *EncountersRepo {
	return &EncountersRepo{db: db}
}

const encounterColumns = `
	id, patient_id, clinic_id,
	state, priority,
	reason_for_visit, reason_for_hospitalization,
	arrived_at, consultation_started_at, hospitalized_at,
	expected_discharge_at, closed_at,
	assigned_vet_id,
	procedures, medication, observations, patient_status,
	history, version,
	created_at, updated_at
`

func (r *EncountersRepo) Create(ctx context.Context, e encounters.Encounter) error {
	history, err := marshalHistory(e.History)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO encounters (`+encounterColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		e.ID,
		e.PatientID,
		e.ClinicID,
		string(e.State),
		string(e.Priority),
		e.ReasonForVisit,
		e.ReasonForHospitalization,
		e.ArrivedAt,
		toNullTime(e.ConsultationStartedAt),
		toNullTime(e.HospitalizedAt),
		toNullTime(e.ExpectedDischargeAt),
		toNullTime(e.ClosedAt),
		e.AssignedVetID,
		e.Notes.Procedures,
		e.Notes.Medication,
		e.Notes.Observations,
		e.Notes.PatientStatus,
		history,
		e.Version,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EncountersRepo) GetByID(ctx context.Context, id string) (encounters.Encounter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return encounters.Encounter{}, encounters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+encounterColumns+`
		FROM encounters
		WHERE id = $1
	`, id)

	return scanEncounter(row)
}

func (r *EncountersRepo) GetActiveByPatient(ctx context.Context, patientID string) (encounters.Encounter, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return encounters.Encounter{}, encounters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+encounterColumns+`
		FROM encounters
		WHERE patient_id = $1 AND state <> 'closed'
	`, patientID)

	return scanEncounter(row)
}

// Update escribe solo si la versión en DB es la que el caller leyó.
// Si RowsAffected es 0, distinguimos entre "no existe" y "perdió la carrera".
func (r *EncountersRepo) Update(ctx context.Context, e encounters.Encounter, expectedVersion int64) error {
	history, err := marshalHistory(e.History)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE encounters
		SET
			state = $3,
			priority = $4,
			reason_for_visit = $5,
			reason_for_hospitalization = $6,
			consultation_started_at = $7,
			hospitalized_at = $8,
			expected_discharge_at = $9,
			closed_at = $10,
			assigned_vet_id = $11,
			procedures = $12,
			medication = $13,
			observations = $14,
			patient_status = $15,
			history = $16,
			version = $17,
			updated_at = $18
		WHERE id = $1 AND version = $2
	`,
		e.ID,
		expectedVersion,
		string(e.State),
		string(e.Priority),
		e.ReasonForVisit,
		e.ReasonForHospitalization,
		toNullTime(e.ConsultationStartedAt),
		toNullTime(e.HospitalizedAt),
		toNullTime(e.ExpectedDischargeAt),
		toNullTime(e.ClosedAt),
		e.AssignedVetID,
		e.Notes.Procedures,
		e.Notes.Medication,
		e.Notes.Observations,
		e.Notes.PatientStatus,
		history,
		e.Version,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM encounters WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return encounters.ErrNotFound
	}
	return encounters.ErrConcurrentModification
}

func (r *EncountersRepo) ListByState(ctx context.Context, clinicID string, st encounters.State) ([]encounters.Encounter, error) {
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+encounterColumns+`
		FROM encounters
		WHERE clinic_id = $1 AND state = $2
		ORDER BY arrived_at ASC
	`, clinicID, string(st))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]encounters.Encounter, 0)
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row scanner) (encounters.Encounter, error) {
	var (
		e                      encounters.Encounter
		state, priority        string
		consultation, admitted sql.NullTime
		expected, closed       sql.NullTime
		history                []byte
	)

	if err := row.Scan(
		&e.ID,
		&e.PatientID,
		&e.ClinicID,
		&state,
		&priority,
		&e.ReasonForVisit,
		&e.ReasonForHospitalization,
		&e.ArrivedAt,
		&consultation,
		&admitted,
		&expected,
		&closed,
		&e.AssignedVetID,
		&e.Notes.Procedures,
		&e.Notes.Medication,
		&e.Notes.Observations,
		&e.Notes.PatientStatus,
		&history,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return encounters.Encounter{}, encounters.ErrNotFound
		}
		return encounters.Encounter{}, err
	}

	e.State = encounters.State(state)
	e.Priority = encounters.Priority(priority)
	e.ConsultationStartedAt = fromNullTime(consultation)
	e.HospitalizedAt = fromNullTime(admitted)
	e.ExpectedDischargeAt = fromNullTime(expected)
	e.ClosedAt = fromNullTime(closed)

	entries, err := unmarshalHistory(history)
	if err != nil {
		return encounters.Encounter{}, err
	}
	e.History = entries

	return e, nil
}

// historyEntry es el formato JSONB de cada cambio de estado.
type historyEntry struct {
	From    string    `json:"from,omitempty"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

func marshalHistory(h []encounters.StateChange) ([]byte, error) {
	entries := make([]historyEntry, 0, len(h))
	for _, c := range h {
		entries = append(entries, historyEntry{
			From:    string(c.From),
			To:      string(c.To),
			At:      c.At,
			ActorID: c.ActorID,
			Detail:  c.Detail,
		})
	}
	return json.Marshal(entries)
}

func unmarshalHistory(raw []byte) ([]encounters.StateChange, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []historyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]encounters.StateChange, 0, len(entries))
	for _, c := range entries {
		out = append(out, encounters.StateChange{
			From:    encounters.State(c.From),
			To:      encounters.State(c.To),
			At:      c.At,
			ActorID: c.ActorID,
			Detail:  c.Detail,
		})
	}
	return out, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
