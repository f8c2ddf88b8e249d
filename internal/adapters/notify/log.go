package notify

import (
	"context"

	"vet-patient-flow/internal/domain/encounters"
	"vet-patient-flow/internal/platform/logger"
)

// LogNotifier implementa encounters.NotificationHook escribiendo al log.
// Sirve como default cuando no hay webhook configurado.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewFromEnv()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OnHospitalized(ctx context.Context, e encounters.Encounter) error {
	n.log.Info("patient hospitalized", map[string]any{
		"encounter_id": e.ID,
		"patient_id":   e.PatientID,
		"clinic_id":    e.ClinicID,
		"reason":       e.ReasonForHospitalization,
	})
	return nil
}
