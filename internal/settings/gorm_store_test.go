package settings

import (
	"context"
	"testing"

	"timeclock-backend/internal/db/dbtest"
	"timeclock-backend/internal/models"
)

func TestGormStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	store := NewGormStore(database)

	got, err := store.Switches(ctx)
	if err != nil {
		t.Fatalf("Switches on empty table: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("empty table = %+v, want defaults", got)
	}

	steps := []Switches{
		{ClockIn: false, ClockOut: true},
		{ClockIn: true, ClockOut: false},
		{ClockIn: false, ClockOut: false},
	}
	for _, want := range steps {
		if err := store.SetSwitches(ctx, want); err != nil {
			t.Fatalf("SetSwitches(%+v): %v", want, err)
		}
		got, err := store.Switches(ctx)
		if err != nil {
			t.Fatalf("Switches: %v", err)
		}
		if got != want {
			t.Fatalf("Switches = %+v, want %+v", got, want)
		}
	}

	var rows int64
	if err := database.Model(&models.Setting{}).Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Fatalf("settings rows = %d, want one per switch", rows)
	}
}

func TestGormStoreIgnoresUnknownValues(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	if err := database.Create(&models.Setting{Key: models.SettingClockOut, Value: "sometimes"}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := NewGormStore(database).Switches(ctx)
	if err != nil {
		t.Fatalf("Switches: %v", err)
	}
	if !got.ClockOut {
		t.Fatalf("unparseable value should leave the default, got %+v", got)
	}
}
