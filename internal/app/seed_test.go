package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

func TestSeedDir(t *testing.T) {
	// Louisa is already stored; her fixture entry must resolve to id 1.
	repo := &fakeRepo{users: []domain.User{{ID: 1, Name: "Louisa Meyer", Email: "jacksonrose@hotmail.com"}}}
	s := app.NewSeedService(repo, app.SeedOptions{Workers: 3})

	rep, err := s.SeedDir(context.Background(), "testdata/seeds")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := app.SeedReport{UsersAdded: 2, UsersExisting: 1, UsersFailed: 1, PropertiesAdded: 2, PropertiesFailed: 1}
	if rep != want {
		t.Fatalf("report: got %+v, want %+v", rep, want)
	}

	devin, err := repo.GetUserWithEmail(context.Background(), "tristanjacobs@gmail.com")
	if err != nil {
		t.Fatalf("seeded user missing: %v", err)
	}
	if _, err := repo.GetUserWithEmail(context.Background(), "victoriablackwell@outlook.com"); err != nil {
		t.Fatalf("nested email alias not mapped: %v", err)
	}

	byTitle := map[string]domain.Property{}
	for _, p := range repo.properties {
		byTitle[p.Title] = p
	}
	if p := byTitle["Speed lamp"]; p.OwnerID != devin.ID || p.CostPerNight != 93061 {
		t.Fatalf("unexpected Speed lamp: %+v (owner want %d)", p, devin.ID)
	}
	if p := byTitle["Blank corner"]; p.OwnerID != 1 || p.CostPerNight != 85234 || p.City != "Bohbatev" {
		t.Fatalf("unexpected Blank corner: %+v", p)
	}
}

func TestSeed_UsersOnly(t *testing.T) {
	repo := &fakeRepo{}
	s := app.NewSeedService(repo, app.SeedOptions{Workers: 1, RPS: 1000})

	rep, err := s.Seed(context.Background(), []byte(`[{"name":"Kim Ito","email":"kim@example.com","password":"pw"}]`), nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.UsersAdded != 1 || rep.PropertiesAdded != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestSeed_BadJSON(t *testing.T) {
	s := app.NewSeedService(&fakeRepo{}, app.SeedOptions{})

	if _, err := s.Seed(context.Background(), []byte(`"nope"`), nil); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := s.SeedDir(context.Background(), "testdata/missing"); err == nil {
		t.Fatalf("expected error for missing users fixture")
	}
}

func TestSeed_CanceledContext(t *testing.T) {
	repo := &fakeRepo{}
	s := app.NewSeedService(repo, app.SeedOptions{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Seed(ctx, []byte(`[{"name":"Kim Ito","email":"kim@example.com","password":"pw"}]`), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("nothing should be inserted after cancel, got %d users", len(repo.users))
	}
}

func TestSeed_RecordsEventLabels(t *testing.T) {
	count := func(kind, event string) float64 {
		return testutil.ToFloat64(observability.SeedEvents.WithLabelValues(kind, event))
	}
	addedBefore, existingBefore, failedBefore := count("user", "added"), count("user", "existing"), count("property", "failed")

	repo := &fakeRepo{users: []domain.User{{ID: 1, Email: "kim@example.com"}}}
	s := app.NewSeedService(repo, app.SeedOptions{Workers: 1})
	users := []byte(`[{"id":1,"name":"Kim Ito","email":"kim@example.com","password":"pw"},{"id":2,"name":"Ana Ruiz","email":"ana@example.com","password":"pw"}]`)
	props := []byte(`[{"owner_id":99,"title":"x","price":1,"country":"c","street":"s","city":"c","province":"p","post_code":"p"}]`)
	if _, err := s.Seed(context.Background(), users, props); err != nil {
		t.Fatalf("err: %v", err)
	}

	if d := count("user", "added") - addedBefore; d != 1 {
		t.Fatalf("user added: got %v", d)
	}
	if d := count("user", "existing") - existingBefore; d != 1 {
		t.Fatalf("user existing: got %v", d)
	}
	if d := count("property", "failed") - failedBefore; d != 1 {
		t.Fatalf("property failed: got %v", d)
	}
}
