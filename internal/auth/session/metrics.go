package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storeadmin",
		Subsystem: "session",
		Name:      "login_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storeadmin",
		Subsystem: "session",
		Name:      "refresh_total",
		Help:      "Refresh attempts by outcome.",
	}, []string{"outcome"})

	sweepMarked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storeadmin",
		Subsystem: "session",
		Name:      "sweep_marked_total",
		Help:      "Sessions blacklisted by the expiry sweep.",
	})

	sweepDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storeadmin",
		Subsystem: "session",
		Name:      "sweep_deleted_total",
		Help:      "Blacklisted sessions deleted by the expiry sweep.",
	})
)
