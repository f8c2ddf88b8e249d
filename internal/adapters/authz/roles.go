package authz

import (
	"context"
	"os"
	"strings"

	"vet-patient-flow/internal/domain/encounters"
)

// Roles conocidos del sistema.
const (
	RoleAdmin     = "admin"
	RoleVet       = "vet"
	RoleReception = "reception"
)

// roleTable: qué roles pueden ejecutar cada transición.
// Recepción maneja sala de espera; los actos clínicos quedan para vet/admin.
var roleTable = map[encounters.Transition][]string{
	encounters.TransitionArrive:                {RoleReception, RoleVet, RoleAdmin},
	encounters.TransitionReprioritize:          {RoleReception, RoleVet, RoleAdmin},
	encounters.TransitionAdmitConsultation:     {RoleReception, RoleVet, RoleAdmin},
	encounters.TransitionAdmitHospitalization:  {RoleVet, RoleAdmin},
	encounters.TransitionUpdateHospitalization: {RoleVet, RoleAdmin},
	encounters.TransitionReassignVet:           {RoleVet, RoleAdmin},
	encounters.TransitionUpdateNotes:           {RoleVet, RoleAdmin},
	encounters.TransitionClose:                 {RoleReception, RoleVet, RoleAdmin},
}

// RoleGate implementa encounters.AuthorizationGate con una tabla de roles
// y scoping por clínica: un actor solo opera sobre encuentros de su clínica.
// Si ALLOW_ALL_TRANSITIONS=true (env), todo pasa (modo dev / fallback).
type RoleGate struct {
	allowAll bool
}

func NewRoleGate() *RoleGate {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_TRANSITIONS")), "true")
	return &RoleGate{allowAll: allowAll}
}

// NewAllowAll devuelve un gate que aprueba todo. Para tests y modo dev.
func NewAllowAll() *RoleGate {
	return &RoleGate{allowAll: true}
}

func (g *RoleGate) CanPerform(ctx context.Context, actor encounters.Actor, t encounters.Transition, e encounters.Encounter) bool {
	if g.allowAll {
		return true
	}

	// Scoping por clínica: claims sin clínica no operan sobre nadie.
	if actor.ClinicID == "" || actor.ClinicID != e.ClinicID {
		return false
	}

	for _, role := range roleTable[t] {
		if strings.EqualFold(actor.Role, role) {
			return true
		}
	}
	return false
}
