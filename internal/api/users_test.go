package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)
	token := registerTestUser(t, router, "alice")

	w := doRequest(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscribeEndpoints(t *testing.T) {
	router, db := setupTestServer(t)
	readerToken := registerTestUser(t, router, "reader")
	registerTestUser(t, router, "author")
	authorID := userIDByUsername(t, db, "author")
	readerID := userIDByUsername(t, db, "reader")

	// Subscribing to yourself is rejected.
	w := doRequest(t, router, http.MethodPost, "/api/v1/users/"+readerID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := "/api/v1/users/" + authorID.String() + "/subscribe"
	w = doRequest(t, router, http.MethodPost, path, readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var sub SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "author", sub.Username)
	assert.True(t, sub.IsSubscribed)

	// Duplicate subscribe is a client error.
	w = doRequest(t, router, http.MethodPost, path, readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The author profile shows the subscription to the reader.
	w = doRequest(t, router, http.MethodGet, "/api/v1/users/"+authorID.String(), readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.True(t, profile.IsSubscribed)

	w = doRequest(t, router, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, router, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionsEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	readerToken := registerTestUser(t, router, "reader")
	authorToken := registerTestUser(t, router, "author")
	authorID := userIDByUsername(t, db, "author")

	tag := seedTag(t, db, "Lunch", "lunch")
	flour := seedIngredient(t, db, "Flour", "g")
	for _, name := range []string{"One", "Two", "Three"} {
		w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", authorToken,
			recipePayload(name, tag, flour, 10))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(t, router, http.MethodPost, "/api/v1/users/"+authorID.String()+"/subscribe", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=2", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count   int64                  `json:"count"`
		Results []SubscriptionResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "author", page.Results[0].Username)
	assert.EqualValues(t, 3, page.Results[0].RecipesCount)
	assert.Len(t, page.Results[0].Recipes, 2)
}

func TestListUsersEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)
	registerTestUser(t, router, "alice")
	registerTestUser(t, router, "bob")

	w := doRequest(t, router, http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count   int64          `json:"count"`
		Results []UserResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Count)
	assert.Len(t, page.Results, 2)
}
