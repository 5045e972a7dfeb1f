package handlers

import (
	"time"

	"bazarapi/internal/models"
)

// applyStatusTransition moves an order's timeline to the named slug: every
// entry before it becomes completed, the target becomes current, everything
// after reverts to pending. UpdatedAt is bumped only on entries whose stage
// actually changed, so re-applying the same slug is a no-op timestamp-wise.
// Any slug is reachable from any state; backward moves are allowed on
// purpose.
func applyStatusTransition(status []models.OrderStatus, slug string, now time.Time) ([]models.OrderStatus, error) {
	target := -1
	for i, entry := range status {
		if entry.Slug == slug {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, errUnknownStatus
	}

	updated := make([]models.OrderStatus, len(status))
	copy(updated, status)

	for i := range updated {
		var want models.Stage
		switch {
		case i < target:
			want = models.StageCompleted
		case i == target:
			want = models.StageCurrent
		default:
			want = models.StagePending
		}
		if updated[i].Stage != want {
			updated[i].Stage = want
			updated[i].UpdatedAt = now
		}
	}
	return updated, nil
}

// collapseFailedStatuses is the customer projection: the raw failure slugs
// disappear and, when one of them is current, a single synthetic "Canceled"
// entry takes their place. Stored state is never touched.
func collapseFailedStatuses(status []models.OrderStatus, now time.Time) []models.OrderStatus {
	var canceledAt time.Time
	showCanceled := false

	for _, entry := range status {
		if models.IsFailedStatus(entry.Slug) && entry.Stage == models.StageCurrent {
			showCanceled = true
			canceledAt = entry.UpdatedAt
			break
		}
	}

	filtered := make([]models.OrderStatus, 0, len(status))
	for _, entry := range status {
		if !models.IsFailedStatus(entry.Slug) {
			filtered = append(filtered, entry)
		}
	}

	if showCanceled {
		if canceledAt.IsZero() {
			canceledAt = now
		}
		filtered = append(filtered, models.OrderStatus{
			Name:      "Canceled",
			Slug:      models.StatusCanceled,
			Stage:     models.StageCurrent,
			UpdatedAt: canceledAt,
		})
	}
	return filtered
}
