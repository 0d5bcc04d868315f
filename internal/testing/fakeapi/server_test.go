package fakeapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealplanner/mealplanner/internal/testing/fakeapi"
	"github.com/mealplanner/mealplanner/pkg/client"
	"github.com/mealplanner/mealplanner/pkg/domain"
)

func TestFakeAPI_FullFlow(t *testing.T) {
	api := fakeapi.New()
	srv := api.Start()
	defer srv.Close()
	c := client.New(srv.URL)
	ctx := context.Background()

	_, err := c.Register(ctx, domain.User{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = c.Register(ctx, domain.User{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.EqualError(t, err, "client.Register: Username already registered")

	_, err = c.Login(ctx, domain.Credentials{Username: "alice", Password: "nope"})
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))

	tok, err := c.Login(ctx, domain.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	data, err := c.GetProtectedData(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", data.User)

	_, err = c.GetPreferences(ctx, tok.AccessToken)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))

	_, err = c.SavePreferences(ctx, domain.Preferences{DietType: "veg", Meals: []string{"lunch"}}, tok.AccessToken)
	require.NoError(t, err)
	prefs, err := c.GetPreferences(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "veg", prefs.DietType)

	api.RevokeTokens()
	_, err = c.GetProtectedData(ctx, tok.AccessToken)
	assert.True(t, client.IsUnauthorized(err))

	for _, id := range api.RequestIDs() {
		assert.NotEmpty(t, id)
	}
}

func TestFakeAPI_InvalidRegistrationFallsBackToStatus(t *testing.T) {
	srv := fakeapi.New().Start()
	defer srv.Close()

	_, err := client.New(srv.URL).Register(context.Background(), domain.User{Username: "bob", Email: "not-an-email", Password: "x"})
	assert.EqualError(t, err, "client.Register: HTTP error! status: 422")
}

func TestFakeAPI_Fail(t *testing.T) {
	api := fakeapi.New()
	srv := api.Start()
	defer srv.Close()

	api.Fail(http.MethodGet, client.PathProtected, http.StatusServiceUnavailable, "")
	_, err := client.New(srv.URL).GetProtectedData(context.Background(), api.IssueToken("alice"))
	assert.True(t, client.IsStatus(err, http.StatusServiceUnavailable))
	assert.Contains(t, err.Error(), "HTTP error! status: 503")
}
