package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-patient-flow/internal/domain/encounters"
	"vet-patient-flow/internal/platform/httpclient"
)

var ErrWebhookNotConfigured = errors.New("webhook notifier not configured")

// hospitalizedPayload es el cuerpo que se postea al webhook.
type hospitalizedPayload struct {
	Event          string     `json:"event"`
	EncounterID    string     `json:"encounter_id"`
	PatientID      string     `json:"patient_id"`
	ClinicID       string     `json:"clinic_id"`
	Reason         string     `json:"reason"`
	HospitalizedAt *time.Time `json:"hospitalized_at,omitempty"`
	ExpectedAt     *time.Time `json:"expected_discharge_at,omitempty"`
}

// WebhookNotifier implementa encounters.NotificationHook posteando un JSON
// a un endpoint externo (el que avisa a admins/dueños). La entrega real
// no es responsabilidad del motor: acá termina en un POST.
type WebhookNotifier struct {
	client *httpclient.Client
	url    string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		client: httpclient.New(timeout),
		url:    strings.TrimSpace(url),
	}
}

func (n *WebhookNotifier) OnHospitalized(ctx context.Context, e encounters.Encounter) error {
	if n == nil || n.url == "" {
		return ErrWebhookNotConfigured
	}

	payload := hospitalizedPayload{
		Event:          "patient_hospitalized",
		EncounterID:    e.ID,
		PatientID:      e.PatientID,
		ClinicID:       e.ClinicID,
		Reason:         e.ReasonForHospitalization,
		HospitalizedAt: e.HospitalizedAt,
		ExpectedAt:     e.ExpectedDischargeAt,
	}

	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload, nil)
}
