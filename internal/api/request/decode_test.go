package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string, dst any) error {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return Decode(httptest.NewRecorder(), r, dst)
}

func TestDecodeValid(t *testing.T) {
	var req ActionRequest
	require.NoError(t, decode(t, `{"action_type":"KICK","reason":"spam"}`, &req))
	assert.Equal(t, "KICK", req.ActionType)
	assert.Nil(t, req.At)
}

func TestDecodeMissingRequired(t *testing.T) {
	var req ActionRequest
	err := decode(t, `{"reason":"spam"}`, &req)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"action_type is required"}, ve.Details)
}

func TestDecodeRequiredPointerBool(t *testing.T) {
	var req BlacklistRequest
	require.NoError(t, decode(t, `{"is_blacklisted":false}`, &req))
	require.NotNil(t, req.IsBlacklisted)
	assert.False(t, *req.IsBlacklisted)

	err := decode(t, `{"reason":"x"}`, &BlacklistRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "is_blacklisted is required")
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	err := decode(t, `{"name":"x","extra":1}`, &NameRequest{})
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	err := decode(t, `{"name":`, &NameRequest{})
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestDecodeCountry(t *testing.T) {
	assert.NoError(t, decode(t, `{"country":"AU"}`, &SteamInfoRequest{}))
	assert.NoError(t, decode(t, `{}`, &SteamInfoRequest{}))

	var ve *ValidationError
	require.ErrorAs(t, decode(t, `{"country":"AUS"}`, &SteamInfoRequest{}), &ve)
	assert.Equal(t, []string{"country must have length 2"}, ve.Details)
}

func TestDecodeEmptyBody(t *testing.T) {
	var req SessionRequest
	require.NoError(t, decode(t, "", &req))
	assert.Nil(t, req.At)

	var ve *ValidationError
	assert.ErrorAs(t, decode(t, "", &NameRequest{}), &ve)
}
