package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestRegisterInsertStatusDuplicateEmail(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	if got := registerInsertStatus(dup); got != 409 {
		t.Fatalf("expected 409 for a duplicate key error, got %d", got)
	}
}

func TestRegisterInsertStatusOtherErrors(t *testing.T) {
	if got := registerInsertStatus(errors.New("connection reset")); got != 500 {
		t.Fatalf("expected 500 for a non-duplicate error, got %d", got)
	}
}

func TestHashTokenIsStableHex(t *testing.T) {
	first := hashToken("refresh-token")
	second := hashToken("refresh-token")

	if first != second {
		t.Fatal("expected identical hashes for the same token")
	}
	if len(first) != 64 {
		t.Fatalf("expected sha256 hex digest of 64 chars, got %d", len(first))
	}
	if first == hashToken("other-token") {
		t.Fatal("expected different tokens to hash differently")
	}
}

func TestGenerateRefreshString(t *testing.T) {
	token := generateRefreshString()
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
	if token == generateRefreshString() {
		t.Fatal("expected fresh randomness on every call")
	}
}
