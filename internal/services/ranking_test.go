package services

import (
	"context"
	"testing"
	"time"

	"turbocms/internal/models"
)

func newTestRankingService() *RankingService {
	return NewRankingService(NewSyncEngine(nil, time.Second))
}

func TestRankingListSortedByPowerDesc(t *testing.T) {
	svc := newTestRankingService()
	ctx := context.Background()

	for _, e := range []models.RankingEntryRequest{
		{Car: "Golf GTI", Owner: "Петя", Power: 310},
		{Car: "Supra A80", Owner: "Ваня", Power: 612},
		{Car: "M3 E46", Owner: "Коля", Power: 460},
	} {
		if _, err := svc.Create(ctx, e); err != nil {
			t.Fatalf("Create(%s): %v", e.Car, err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ожидалось 3 записи, получено: %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Power < list[i].Power {
			t.Fatalf("порядок должен быть по убыванию мощности: %v перед %v",
				list[i-1].Power, list[i].Power)
		}
	}
	if list[0].Car != "Supra A80" {
		t.Fatalf("первой должна идти самая мощная, получено: %s", list[0].Car)
	}
}

func TestRankingUpdateAndDelete(t *testing.T) {
	svc := newTestRankingService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.RankingEntryRequest{Car: "Evo IX", Owner: "Дима", Power: 400})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, models.RankingEntryRequest{Car: "Evo IX", Owner: "Дима", Power: 540})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Power != 540 {
		t.Fatalf("мощность не обновилась: %v", updated.Power)
	}
	if updated.ID != created.ID {
		t.Fatal("id записи при обновлении меняться не должен")
	}

	if _, err := svc.Update(ctx, "нет-такой", models.RankingEntryRequest{}); err != ErrRankingEntryNotFound {
		t.Fatalf("ожидалась ErrRankingEntryNotFound, получено: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("после удаления список должен быть пуст: %d", len(list))
	}
	if err := svc.Delete(ctx, created.ID); err != ErrRankingEntryNotFound {
		t.Fatalf("повторное удаление: ожидалась ErrRankingEntryNotFound, получено %v", err)
	}
}
