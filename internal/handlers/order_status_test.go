package handlers

import (
	"errors"
	"testing"
	"time"

	"bazarapi/internal/models"
)

func countStage(status []models.OrderStatus, stage models.Stage) int {
	n := 0
	for _, entry := range status {
		if entry.Stage == stage {
			n++
		}
	}
	return n
}

func TestStatusTransitionMarksStages(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	timeline := models.DefaultStatusTimeline(start)

	later := start.Add(time.Hour)
	updated, err := applyStatusTransition(timeline, models.StatusOnTheWay, later)
	if err != nil {
		t.Fatal(err)
	}

	if updated[0].Stage != models.StageCompleted ||
		updated[1].Stage != models.StageCompleted ||
		updated[2].Stage != models.StageCompleted {
		t.Fatal("expected stages before target to be completed")
	}
	if updated[3].Stage != models.StageCurrent {
		t.Fatalf("expected on-the-way current, got %s", updated[3].Stage)
	}
	for _, entry := range updated[4:] {
		if entry.Stage != models.StagePending {
			t.Fatalf("expected %s pending, got %s", entry.Slug, entry.Stage)
		}
	}
}

func TestStatusTransitionExactlyOneCurrent(t *testing.T) {
	timeline := models.DefaultStatusTimeline(time.Now())

	for _, slug := range []string{
		models.StatusAccepted,
		models.StatusDelivered,
		models.StatusRejected,
		models.StatusPending,
	} {
		updated, err := applyStatusTransition(timeline, slug, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if got := countStage(updated, models.StageCurrent); got != 1 {
			t.Fatalf("slug %s: expected exactly one current entry, got %d", slug, got)
		}
		timeline = updated
	}
}

func TestStatusTransitionIdempotentTimestamps(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	timeline := models.DefaultStatusTimeline(start)

	first := start.Add(time.Hour)
	once, err := applyStatusTransition(timeline, models.StatusAccepted, first)
	if err != nil {
		t.Fatal(err)
	}

	second := first.Add(time.Hour)
	twice, err := applyStatusTransition(once, models.StatusAccepted, second)
	if err != nil {
		t.Fatal(err)
	}

	for i := range twice {
		if twice[i].Stage != once[i].Stage {
			t.Fatalf("stage of %s changed on re-apply", twice[i].Slug)
		}
		if !twice[i].UpdatedAt.Equal(once[i].UpdatedAt) {
			t.Fatalf("updatedAt of %s bumped on re-apply", twice[i].Slug)
		}
	}
}

func TestStatusTransitionUnknownSlug(t *testing.T) {
	_, err := applyStatusTransition(models.DefaultStatusTimeline(time.Now()), "shipped", time.Now())
	if !errors.Is(err, errUnknownStatus) {
		t.Fatalf("expected errUnknownStatus, got %v", err)
	}
}

func TestCollapseFailedStatusesForCustomerView(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	timeline := models.DefaultStatusTimeline(now)

	rejected, err := applyStatusTransition(timeline, models.StatusRejected, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	view := collapseFailedStatuses(rejected, now)

	for _, entry := range view {
		if entry.Slug == models.StatusRejected ||
			entry.Slug == models.StatusReturn ||
			entry.Slug == models.StatusFailedToDeliver {
			t.Fatalf("raw failure slug %s leaked into customer view", entry.Slug)
		}
	}

	last := view[len(view)-1]
	if last.Name != "Canceled" || last.Stage != models.StageCurrent {
		t.Fatalf("expected synthetic Canceled current entry, got %+v", last)
	}
	if !last.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected canceled timestamp carried over, got %v", last.UpdatedAt)
	}
}

func TestCollapseKeepsHappyPathUntouched(t *testing.T) {
	now := time.Now()
	timeline := models.DefaultStatusTimeline(now)

	delivered, err := applyStatusTransition(timeline, models.StatusDelivered, now)
	if err != nil {
		t.Fatal(err)
	}

	view := collapseFailedStatuses(delivered, now)
	if countStage(view, models.StageCurrent) != 1 {
		t.Fatal("expected exactly one current entry in customer view")
	}
	for _, entry := range view {
		if entry.Slug == models.StatusCanceled {
			t.Fatal("no synthetic canceled entry expected on the happy path")
		}
	}
}
