package firebase

import (
	"context"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
		want   string
	}{
		{"verified", map[string]interface{}{"email": "a@example.com", "email_verified": true}, "a@example.com"},
		{"unverified", map[string]interface{}{"email": "a@example.com", "email_verified": false}, ""},
		{"no flag", map[string]interface{}{"email": "a@example.com"}, "a@example.com"},
		{"missing", map[string]interface{}{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(&auth.Token{UID: "uid", Claims: tt.claims}))
		})
	}
	assert.Empty(t, Email(nil))
}

func TestNewAuthClient_MissingCredentials(t *testing.T) {
	_, err := NewAuthClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewAuthClient(context.Background(), t.TempDir()+"/missing.json")
	assert.Error(t, err)
}
