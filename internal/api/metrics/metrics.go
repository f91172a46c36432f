// Package metrics defines the custom Prometheus metrics of the users service.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is loaded; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── User metrics ─────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users registered successfully.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// UsersDeletedTotal counts users removed together with their roles.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// ── Role metrics ─────────────────────────────────────────────────────────────

// RolesAddedTotal counts roles granted after registration.
// Label:
//   - role: catalog name of the granted role (e.g. "OWNER")
var RolesAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_added_total",
		Help:      "Total number of roles added to existing users, by role.",
	},
	[]string{"role"},
)

// RolesRemovedTotal counts role records deleted by their owner.
var RolesRemovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_removed_total",
		Help:      "Total number of role records removed.",
	},
)

// ── Error metrics ────────────────────────────────────────────────────────────

// DomainErrorsTotal counts requests rejected with a domain error.
// Label:
//   - kind: "not_found", "forbidden", "conflict", "invalid_role" or "validation"
var DomainErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_errors_total",
		Help:      "Total number of requests rejected with a domain error, by kind.",
	},
	[]string{"kind"},
)
