package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"webcars/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Jose",
		Email: "jose@example.com",
	}
}

func TestMergeProfileFallsBackToAccountIdentity(t *testing.T) {
	user := testUser()
	profile := mergeProfile(ProfileRequest{}, user)

	if profile.Name != "Jose" || profile.Email != "jose@example.com" {
		t.Fatalf("expected account identity fallback, got %+v", profile)
	}
	if profile.Contact != profileFallback || profile.Address != profileFallback || profile.City != profileFallback {
		t.Fatalf("expected %q fallback for blank contact fields, got %+v", profileFallback, profile)
	}
	if profile.UID != user.ID.Hex() {
		t.Fatalf("expected profile keyed by uid %s, got %s", user.ID.Hex(), profile.UID)
	}
}

func TestMergeProfileKeepsProvidedFields(t *testing.T) {
	user := testUser()
	profile := mergeProfile(ProfileRequest{
		Name:    " Maria ",
		Contact: "55889999999",
		City:    "Fortaleza",
	}, user)

	if profile.Name != "Maria" {
		t.Fatalf("expected provided name to win, got %q", profile.Name)
	}
	if profile.Contact != "55889999999" || profile.City != "Fortaleza" {
		t.Fatalf("expected provided fields kept, got %+v", profile)
	}
	if profile.Email != "jose@example.com" {
		t.Fatalf("expected email fallback, got %q", profile.Email)
	}
	if profile.Address != profileFallback {
		t.Fatalf("expected address fallback, got %q", profile.Address)
	}
}
