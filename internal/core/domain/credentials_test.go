package domain

import (
	"testing"
	"time"
)

func TestPlatformCredential_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expired one second ago", now.Add(-time.Second), true},
		{"expires in one hour", now.Add(time.Hour), false},
		{"exactly now", now, true},
		{"zero expiry never expires", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &PlatformCredential{ExpiresAt: tt.expiresAt}
			if got := c.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlatformCredential_ApplyRefresh(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	c := &PlatformCredential{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		Scopes:       []string{"r_liteprofile"},
	}

	// Provider reused the refresh token (omitted it from the response)
	c.ApplyRefresh(&TokenSet{
		AccessToken: "new-access",
		ExpiresAt:   expiry,
	})

	if c.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q, want %q", c.AccessToken, "new-access")
	}
	if c.RefreshToken != "old-refresh" {
		t.Errorf("RefreshToken = %q, want old token kept", c.RefreshToken)
	}
	if !c.ExpiresAt.Equal(expiry) {
		t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, expiry)
	}
	if len(c.Scopes) != 1 || c.Scopes[0] != "r_liteprofile" {
		t.Errorf("Scopes = %v, want unchanged", c.Scopes)
	}

	// Provider rotated the refresh token
	c.ApplyRefresh(&TokenSet{
		AccessToken:  "newer-access",
		RefreshToken: "rotated-refresh",
		ExpiresAt:    expiry.Add(time.Hour),
		Scopes:       []string{"r_ads"},
	})

	if c.RefreshToken != "rotated-refresh" {
		t.Errorf("RefreshToken = %q, want rotated token", c.RefreshToken)
	}
	if len(c.Scopes) != 1 || c.Scopes[0] != "r_ads" {
		t.Errorf("Scopes = %v, want replaced", c.Scopes)
	}
}

func TestPlatformCredential_ToSummary(t *testing.T) {
	c := &PlatformCredential{
		ID:           "cred-1",
		PlatformID:   "plat-1",
		Principal:    UserPrincipal("user-1"),
		AccessToken:  "secret-access",
		RefreshToken: "secret-refresh",
	}

	s := c.ToSummary()

	if s.ID != "cred-1" || s.PlatformID != "plat-1" {
		t.Errorf("summary keys = %q/%q", s.ID, s.PlatformID)
	}
	if !s.HasRefreshToken {
		t.Error("HasRefreshToken = false, want true")
	}
	if s.Principal.SubjectID != "user-1" {
		t.Errorf("Principal.SubjectID = %q", s.Principal.SubjectID)
	}
}

func TestPrincipal_Constructors(t *testing.T) {
	org := OrgPrincipal()
	if org.Type != PrincipalOrganization || org.SubjectID != "" {
		t.Errorf("OrgPrincipal() = %+v", org)
	}

	user := UserPrincipal("u-42")
	if user.Type != PrincipalUser || user.SubjectID != "u-42" {
		t.Errorf("UserPrincipal() = %+v", user)
	}
}
