package collection

import (
	"errors"
	"fmt"
	"time"

	"github.com/YasinHossain/quran-app-sub003/internal/ident"
)

// ErrInvalidTarget is returned when a plan is created with a non-positive
// verse target. This is the one contract violation the pure layer surfaces.
var ErrInvalidTarget = errors.New("memorization target must be positive")

// NewMemorizationPlan creates a plan for the given surah.
func NewMemorizationPlan(surahID string, targetVerses int, name string) (MemorizationPlan, error) {
	if targetVerses <= 0 {
		return MemorizationPlan{}, fmt.Errorf("%w: got %d", ErrInvalidTarget, targetVerses)
	}
	now := time.Now()
	return MemorizationPlan{
		ID:           ident.New(),
		SurahID:      surahID,
		Name:         name,
		TargetVerses: targetVerses,
		CreatedAt:    now,
		LastUpdated:  now,
	}, nil
}

// UpsertPlan returns a copy of plans with the given plan keyed by its surah.
func UpsertPlan(plans Plans, plan MemorizationPlan) Plans {
	out := clonePlans(plans)
	out[plan.SurahID] = plan
	return out
}

// UpdateMemorizationProgress sets the completed count on the plan for
// surahID. Progress may be corrected downward; negative input clamps to
// zero. Absent plan is a no-op.
func UpdateMemorizationProgress(plans Plans, surahID string, completed int) Plans {
	plan, ok := plans[surahID]
	if !ok {
		return plans
	}
	if completed < 0 {
		completed = 0
	}
	out := clonePlans(plans)
	plan.CompletedVerses = completed
	plan.LastUpdated = time.Now()
	out[surahID] = plan
	return out
}

// RemovePlan drops the plan for surahID, if any.
func RemovePlan(plans Plans, surahID string) Plans {
	if _, ok := plans[surahID]; !ok {
		return plans
	}
	out := clonePlans(plans)
	delete(out, surahID)
	return out
}

func clonePlans(plans Plans) Plans {
	out := make(Plans, len(plans)+1)
	for k, v := range plans {
		out[k] = v
	}
	return out
}
