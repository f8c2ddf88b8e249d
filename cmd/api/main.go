package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"vet-patient-flow/internal/adapters/auth/jwtauth"
	"vet-patient-flow/internal/ports/auth"
	"vet-patient-flow/internal/router"
)

// @title vet-patient-flow API
// @description Motor de flujo de pacientes: sala de espera, consulta, hospitalización y alta.
// @version 1.0
// @BasePath /
func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Con JWT_SECRET seteado valida Bearer tokens; sin él queda en modo dev
	// (headers X-Debug-*).
	var verifier auth.AuthVerifier
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		verifier = jwtauth.NewVerifier(secret)
	}

	r := router.NewRouter(router.Options{AuthVerifier: verifier})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
