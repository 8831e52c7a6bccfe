package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"localhost with port", "http://localhost:5173", true},
		{"loopback", "http://127.0.0.1:8000", true},
		{"lan 192.168", "http://192.168.0.20:3000", true},
		{"lan 10/8", "https://10.1.2.3", true},
		{"lan 172.16/12 upper edge", "http://172.31.255.255", true},
		{"outside 172.16/12", "http://172.32.0.1", false},
		{"link-local", "http://169.254.10.10", true},
		{"mdns name", "http://chatbot.local:8000", true},
		{"single label", "http://homeserver:8000", true},
		{"ipv4-mapped ipv6", "http://[::ffff:192.168.1.5]", true},
		{"public domain", "https://example.com", false},
		{"suffix trick", "http://image.tmdb.org.attacker.net", false},
		{"public ip", "http://8.8.4.4", false},
		{"empty", "", false},
		{"no scheme", "localhost:3000", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.allowed {
			t.Errorf("%s: IsAllowedOrigin(%q) = %v, want %v", tt.name, tt.origin, got, tt.allowed)
		}
	}
}

func TestOriginPolicy_Allowed(t *testing.T) {
	policy := NewOriginPolicy([]string{" https://app.example.com/ ", ""})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://app.example.com", true},
		{"https://APP.example.com", true},
		{"http://app.example.com", false},
		{"https://other.example.com", false},
		{"http://localhost:5173", true},
		{"http://[::1]:8000", true},
		{"http://[fd00::1]", true},
		{"http://[2001:4860::8888]", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := policy.Allowed(tt.origin); got != tt.allowed {
			t.Errorf("Allowed(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}

func TestOriginPolicy_Wildcard(t *testing.T) {
	policy := NewOriginPolicy([]string{"*"})
	if !policy.Allowed("https://anywhere.example.org") {
		t.Fatal("wildcard policy should allow any origin")
	}
	if policy.Allowed("") {
		t.Fatal("empty origin must never be allowed")
	}
}

func TestOriginPolicy_Nil(t *testing.T) {
	var policy *OriginPolicy
	if !policy.Allowed("http://127.0.0.1:3000") {
		t.Fatal("nil policy should still allow private origins")
	}
	if policy.Allowed("https://example.com") {
		t.Fatal("nil policy should reject public origins")
	}
}
