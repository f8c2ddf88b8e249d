package encounters

import "time"

// Metrics son los tiempos derivados que ve la UI de sala de espera.
// Los campos puntero son nil cuando la métrica no aplica al estado actual.
type Metrics struct {
	// Minutos desde la llegada hasta el inicio de consulta (o hasta ahora).
	WaitMinutes int64

	// Minutos en consulta; nil si nunca entró a consulta.
	ConsultationMinutes *int64

	// Horas internado; nil si nunca fue hospitalizado.
	HospitalizationHours *float64

	// Horas hasta el alta estimada; nil si no hay alta estimada.
	// Negativo significa alta vencida; DischargeOverdue lo hace explícito
	// para que la UI no tenga que interpretar el signo.
	HoursUntilExpectedDischarge *float64
	DischargeOverdue            bool
}

// Project calcula las métricas de un encuentro contra un "ahora" dado.
// Función pura: mismo encuentro + mismo now = mismo resultado.
// Nunca se cachea; now cambia en cada lectura y el cálculo es O(1).
func Project(e Encounter, now time.Time) Metrics {
	var m Metrics

	waitEnd := now
	if e.ConsultationStartedAt != nil {
		waitEnd = *e.ConsultationStartedAt
	}
	m.WaitMinutes = int64(waitEnd.Sub(e.ArrivedAt) / time.Minute)

	if e.ConsultationStartedAt != nil {
		end := now
		if e.HospitalizedAt != nil {
			end = *e.HospitalizedAt
		} else if e.ClosedAt != nil {
			end = *e.ClosedAt
		}
		v := int64(end.Sub(*e.ConsultationStartedAt) / time.Minute)
		m.ConsultationMinutes = &v
	}

	if e.HospitalizedAt != nil {
		end := now
		if e.ClosedAt != nil {
			end = *e.ClosedAt
		}
		v := end.Sub(*e.HospitalizedAt).Hours()
		m.HospitalizationHours = &v
	}

	if e.ExpectedDischargeAt != nil {
		v := e.ExpectedDischargeAt.Sub(now).Hours()
		m.HoursUntilExpectedDischarge = &v
		m.DischargeOverdue = v < 0
	}

	return m
}
