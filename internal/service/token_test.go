package service

import (
	"errors"
	"testing"
	"time"

	"github.com/crealink-next/internal/constants"
)

func TestParseActorToken_RoundTrip(t *testing.T) {
	secret := "unit-test-secret-key-0123456789abcdef"
	token, err := SignActorToken(Actor{ID: 7, Role: "Admin", Name: "Demo Admin"}, secret, "crealink-identity", time.Hour)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}

	actor, err := ParseActorToken(token, secret, "crealink-identity")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.ID != 7 || actor.Name != "Demo Admin" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if actor.Role != constants.ActorRoleAdmin {
		t.Fatalf("expected role lowercased, got %q", actor.Role)
	}
}

func TestParseActorToken_Rejections(t *testing.T) {
	secret := "unit-test-secret-key-0123456789abcdef"

	if _, err := ParseActorToken("", secret, ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}

	token, err := SignActorToken(Actor{ID: 7, Role: "creator"}, secret, "someone-else", time.Hour)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	if _, err := ParseActorToken(token, secret, "crealink-identity"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected issuer mismatch rejection, got %v", err)
	}
	if _, err := ParseActorToken(token, "another-secret-key-material-here", "someone-else"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected signature rejection, got %v", err)
	}

	expired, err := SignActorToken(Actor{ID: 7, Role: "creator"}, secret, "", -time.Minute)
	if err != nil {
		t.Fatalf("sign expired token failed: %v", err)
	}
	if _, err := ParseActorToken(expired, secret, ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}

	missingRole, err := SignActorToken(Actor{ID: 7}, secret, "", time.Hour)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	if _, err := ParseActorToken(missingRole, secret, ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected missing role rejection, got %v", err)
	}
}
