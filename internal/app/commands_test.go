package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

func TestAddUser_TrimsAndStores(t *testing.T) {
	repo := &fakeRepo{}
	c := app.NewCommandService(repo)

	u, err := c.AddUser(context.Background(), domain.NewUser{Name: " Kim Ito ", Email: " kim@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.ID != 1 || u.Name != "Kim Ito" || u.Email != "kim@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAddUser_Invalid(t *testing.T) {
	c := app.NewCommandService(&fakeRepo{})

	_, err := c.AddUser(context.Background(), domain.NewUser{Name: "Kim", Email: "not-an-email", Password: "pw"})
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

func TestAddUser_ConflictPassesThrough(t *testing.T) {
	repo := &fakeRepo{users: []domain.User{{ID: 1, Email: "kim@example.com"}}}
	c := app.NewCommandService(repo)

	_, err := c.AddUser(context.Background(), domain.NewUser{Name: "Kim", Email: "kim@example.com", Password: "pw"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAddProperty(t *testing.T) {
	repo := &fakeRepo{users: []domain.User{{ID: 1}}}
	c := app.NewCommandService(repo)

	np := domain.NewProperty{
		OwnerID: 1, Title: " Speed lamp ", CostPerNight: 93061,
		ThumbnailPhotoURL: "https://images.example.com/thumb.jpg",
		Country: "Canada", Street: "536 Namsub Highway", City: "Sotboske", Province: "Quebec", PostCode: "28142",
	}
	p, err := c.AddProperty(context.Background(), np)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.ID != 1 || p.Title != "Speed lamp" || !p.Active {
		t.Fatalf("unexpected property: %+v", p)
	}

	np.CostPerNight = 0
	np.CoverPhotoURL = "not a url"
	_, err = c.AddProperty(context.Background(), np)
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	np.CostPerNight, np.CoverPhotoURL, np.OwnerID = 100, "", 42
	if _, err := c.AddProperty(context.Background(), np); !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}
