package email

import (
	"strings"
	"testing"
)

func TestServiceIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name:     "empty config",
			config:   Config{},
			expected: false,
		},
		{
			name: "missing host",
			config: Config{
				Port: "587",
				From: "compass@example.com",
			},
			expected: false,
		},
		{
			name: "missing from",
			config: Config{
				Host: "smtp.example.com",
				Port: "587",
			},
			expected: false,
		},
		{
			name: "fully configured",
			config: Config{
				Host: "smtp.example.com",
				Port: "587",
				From: "compass@example.com",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.config)
			if svc.IsConfigured() != tt.expected {
				t.Errorf("IsConfigured() = %v, want %v", svc.IsConfigured(), tt.expected)
			}
		})
	}
}

func TestRenderCommentNotificationTemplate(t *testing.T) {
	data := CommentNotification{
		RecipientName:  "Ana Garcia",
		RecipientEmail: "ana@example.com",
		Department:     "Ventas",
		Objective:      "Cerrar pipeline Q3",
		Progress:       85,
		Comment:        "Buen avance, revisar pendientes",
		Author:         "Dirección",
		Date:           "2026-09-01 10:00",
	}

	html, err := renderTemplate(commentNotificationTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate failed: %v", err)
	}

	for _, want := range []string{
		"Ana Garcia",
		"Ventas",
		"Cerrar pipeline Q3",
		"85%",
		"Buen avance, revisar pendientes",
		"Dirección",
		"2026-09-01 10:00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("template missing %q", want)
		}
	}
}

func TestSendCommentNotificationRequiresRecipient(t *testing.T) {
	svc := NewService(Config{Host: "smtp.example.com", Port: "587", From: "compass@example.com"})

	err := svc.SendCommentNotification(CommentNotification{RecipientName: "Ana"})
	if err == nil {
		t.Fatal("expected error for missing recipient email")
	}
	if !strings.Contains(err.Error(), "recipient") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	svc := NewService(Config{})
	if err := svc.SendEmail([]string{"a@example.com"}, "subject", "body"); err == nil {
		t.Error("expected error when email is not configured")
	}
	if err := svc.SendHTMLEmail([]string{"a@example.com"}, "subject", "<p>body</p>"); err == nil {
		t.Error("expected error when email is not configured")
	}
}
