// Package metrics define los collectors Prometheus del servicio. Paquete
// standalone para evitar ciclos de import entre services y HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campauth_login_attempts_total",
		Help: "Intentos de login por resultado (success|failure)",
	}, []string{"result"})

	Signups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campauth_signups_total",
		Help: "Altas por tabla destino",
	}, []string{"table"})

	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campauth_rate_limit_rejections_total",
		Help: "Requests rechazados por rate limit, por acción (login|sms)",
	}, []string{"action"})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campauth_emails_sent_total",
		Help: "Emails salientes por resultado (ok|error)",
	}, []string{"result"})

	SMSSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campauth_sms_sent_total",
		Help: "SMS salientes por resultado (ok|error)",
	}, []string{"result"})
)

// Register registra todos los collectors en reg (default si es nil).
// Tolera doble registro para no romper en tests.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginAttempts, Signups, RateLimitRejections, EmailsSent, SMSSent,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
