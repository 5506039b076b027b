package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/venture-profile/internal/types"
	schemafiles "github.com/jonathan/venture-profile/schemas"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "amountRaised", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. amountRaised: must be a number")
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("nope.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nope.schema.json", loadErr.Path)
}

func TestDecodeProfile(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"minimal", `{"name": "Acme"}`, false},
		{"with amounts", `{"name": "Acme", "amountRaised": 1500000, "fundingNeeded": null, "isYouthLed": true}`, false},
		{"missing name", `{"sector": "Retail"}`, true},
		{"empty name", `{"name": ""}`, true},
		{"amount as string", `{"name": "Acme", "amountRaised": "lots"}`, true},
		{"flag as string", `{"name": "Acme", "isWomanLed": "yes"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeProfile([]byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				_, ok := err.(*ValidationError)
				assert.True(t, ok, "expected ValidationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Acme", p.Name)
		})
	}
}

func TestValidateDocument_MalformedJSON(t *testing.T) {
	for _, doc := range []string{`{"name":`, ``, `not json`} {
		err := ValidateDocument(schemafiles.CompanyProfile, []byte(doc))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "document %q", doc)
		assert.Equal(t, "(root)", ve.Errors[0].Field)
	}

	_, err := DecodeRounds([]byte(`[{"roundType":`))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDecodeProfile_Amounts(t *testing.T) {
	p, err := DecodeProfile([]byte(`{"name": "Acme", "amountRaised": 1500000}`))
	require.NoError(t, err)
	require.NotNil(t, p.AmountRaised)
	assert.Equal(t, 1500000.0, *p.AmountRaised)
	assert.Nil(t, p.FundingNeeded)
}

func TestDecodeRounds(t *testing.T) {
	rounds, err := DecodeRounds([]byte(`[{"roundType": "Seed", "amount": 50000, "date": "2024-01-01", "status": "Closed"}]`))
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, "Seed", rounds[0].RoundType)

	_, err = DecodeRounds([]byte(`{"roundType": "Seed"}`))
	assert.Error(t, err)
}

func TestDecodeRenderRequest(t *testing.T) {
	t.Run("bare profile", func(t *testing.T) {
		req, err := DecodeRenderRequest([]byte(`{"name": "Acme"}`))
		require.NoError(t, err)
		assert.Equal(t, "Acme", req.Profile.Name)
		assert.Empty(t, req.Rounds)
	})

	t.Run("envelope", func(t *testing.T) {
		req, err := DecodeRenderRequest([]byte(`{"profile": {"name": "Acme"}, "rounds": [{"roundType": "Seed"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Acme", req.Profile.Name)
		require.Len(t, req.Rounds, 1)
	})

	t.Run("invalid profile in envelope", func(t *testing.T) {
		_, err := DecodeRenderRequest([]byte(`{"profile": {}}`))
		require.Error(t, err)
		validationErr, ok := err.(*ValidationError)
		require.True(t, ok)
		assert.Equal(t, "profile", validationErr.Errors[0].Field)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := DecodeRenderRequest([]byte(`[1, 2]`))
		require.Error(t, err)
		_, ok := err.(*ValidationError)
		assert.True(t, ok)
	})
}

func TestFromStructErrors(t *testing.T) {
	t.Run("nested field paths", func(t *testing.T) {
		err := FromStructErrors((&types.RenderRequest{Profile: &types.CompanyProfile{}}).Validate())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Errors, 1)
		assert.Equal(t, "profile.name", ve.Errors[0].Field)
		assert.Equal(t, "failed on the 'required' rule", ve.Errors[0].Message)
	})

	t.Run("missing profile", func(t *testing.T) {
		err := FromStructErrors((&types.RenderRequest{}).Validate())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "profile", ve.Errors[0].Field)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Same(t, plain, FromStructErrors(plain))
		assert.NoError(t, FromStructErrors(nil))
	})
}

func TestBundledSchemasLoad(t *testing.T) {
	for _, name := range []string{schemafiles.CompanyProfile, schemafiles.FundingRounds} {
		t.Run(name, func(t *testing.T) {
			// null is never a valid document, but the schema itself must load.
			err := ValidateDocument(name, []byte(`null`))
			require.Error(t, err)
			_, isLoadErr := err.(*SchemaLoadError)
			assert.False(t, isLoadErr, "schema should load: %v", err)
		})
	}
}
