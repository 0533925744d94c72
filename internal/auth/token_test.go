package auth

import (
	"testing"

	"github.com/fixora/helpdesk/internal/config"
	"github.com/fixora/helpdesk/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", ActorTokenTTLMinutes: 60})
	user := &domain.User{ID: 12, Email: "sam@example.com", Role: domain.UserRoleITSupport}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 12 {
		t.Errorf("uid = %d, want 12", claims.UserID)
	}
	if claims.Role != domain.UserRoleITSupport {
		t.Errorf("role = %s, want it_support", claims.Role)
	}
	if claims.Subject != "sam@example.com" {
		t.Errorf("subject = %s", claims.Subject)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager(config.AuthConfig{JWTSecret: "secret-a", ActorTokenTTLMinutes: 60})
	verifier := NewTokenManager(config.AuthConfig{JWTSecret: "secret-b", ActorTokenTTLMinutes: 60})

	token, err := issuer.Issue(&domain.User{ID: 1, Role: domain.UserRoleEmployee})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	manager := NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", ActorTokenTTLMinutes: -5})
	token, err := manager.Issue(&domain.User{ID: 1, Role: domain.UserRoleEmployee})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := manager.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", ActorTokenTTLMinutes: 60})
	if _, err := manager.Parse("not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}
