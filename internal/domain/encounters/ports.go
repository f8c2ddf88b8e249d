package encounters

import "context"

// Actor es quien intenta la transición (sacado de los claims del request).
type Actor struct {
	UserID   string
	ClinicID string
	Role     string
}

// AuthorizationGate decide si un actor puede ejecutar una transición.
// El motor lo consulta antes de tocar el encuentro; la implementación
// (roles, permisos por clínica) vive en adapters.
type AuthorizationGate interface {
	CanPerform(ctx context.Context, actor Actor, t Transition, e Encounter) bool
}

// NotificationHook recibe avisos de transiciones seleccionadas.
// Es fire-and-forget: un error acá se loguea y no revierte la transición.
type NotificationHook interface {
	OnHospitalized(ctx context.Context, e Encounter) error
}
