package auth

import (
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/metrics"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Allow Decision = iota
	Forbid
	NotFound
)

// Resource is any record subject to ownership checks.
type Resource interface {
	ResourceID() int64
	OwnerID() int64
}

// Authorize decides whether actor may perform op on res. A nil res means the
// lookup found nothing; absence is decided before ownership so the check
// never runs against a record the caller could not have seen anyway. Every
// denial is audit-logged with the acting identity and the true owner; that
// detail stays out of the response body.
func Authorize(res Resource, actor Identity, op string) Decision {
	if res == nil {
		return NotFound
	}
	if res.OwnerID() != actor.ID {
		metrics.OwnershipDenialsTotal.Inc()
		log.Warn().
			Int64("actor_id", actor.ID).
			Int64("resource_id", res.ResourceID()).
			Int64("owner_id", res.OwnerID()).
			Str("operation", op).
			Msg("Ownership check denied cross-owner access")
		return Forbid
	}
	return Allow
}
