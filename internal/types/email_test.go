//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    EmailForm
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid form",
			form:    EmailForm{To: "investor@example.com", Subject: "Acme profile", Message: "See attached."},
			wantErr: false,
		},
		{
			name:    "message is optional",
			form:    EmailForm{To: "investor@example.com", Subject: "Acme profile"},
			wantErr: false,
		},
		{
			name:    "missing recipient",
			form:    EmailForm{Subject: "Acme profile"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "invalid recipient",
			form:    EmailForm{To: "not-an-email", Subject: "Acme profile"},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name:    "missing subject",
			form:    EmailForm{To: "investor@example.com"},
			wantErr: true,
			errMsg:  "'subject'",
		},
		{
			name:    "subject too long",
			form:    EmailForm{To: "investor@example.com", Subject: strings.Repeat("s", 201)},
			wantErr: true,
			errMsg:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRenderRequest_Validate(t *testing.T) {
	t.Run("missing profile", func(t *testing.T) {
		req := RenderRequest{}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RenderRequest.profile")
	})

	t.Run("profile without name", func(t *testing.T) {
		req := RenderRequest{Profile: &CompanyProfile{Sector: "Fintech"}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RenderRequest.profile.name")
	})

	t.Run("valid", func(t *testing.T) {
		req := RenderRequest{Profile: &CompanyProfile{Name: "Acme"}}
		assert.NoError(t, req.Validate())
	})
}
