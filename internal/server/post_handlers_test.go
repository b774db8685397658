package server

import (
	"fmt"
	"net/http"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, app *fiber.App, token, title string) models.Post {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
		"title":   title,
		"content": "some content",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)
	return post
}

func TestCreateAndGetPost(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, token := signupUser(t, app, "alice")

	post := createPost(t, app, token, "hello world")
	assert.Equal(t, aliceID, post.UserID)
	assert.Equal(t, "alice", post.User.Username)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Post
	decodeBody(t, resp, &got)
	assert.Equal(t, "hello world", got.Title)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{"title": "no content"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeletePostOwnership(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupUser(t, app, "alice")
	_, bobToken := signupUser(t, app, "bob")

	post := createPost(t, app, aliceToken, "alice's post")

	// bob may not delete alice's post
	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// alice may
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLikeUnlikePost(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupUser(t, app, "alice")
	_, bobToken := signupUser(t, app, "bob")

	post := createPost(t, app, aliceToken, "likeable")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// double like conflicts
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// count is reflected on read
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	var got models.Post
	decodeBody(t, resp, &got)
	assert.Equal(t, 1, got.LikesCount)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// unliking without a like is a not-found
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// liking an absent post is a not-found, not a dangling like
	resp = doJSON(t, app, http.MethodPost, "/api/posts/9999/like", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCommentLifecycle(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupUser(t, app, "alice")
	_, bobToken := signupUser(t, app, "bob")
	_, carolToken := signupUser(t, app, "carol")

	post := createPost(t, app, aliceToken, "discuss")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bobToken,
		map[string]string{"content": "great post"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "bob", comment.User.Username)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", post.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 1)

	// a bystander may not delete bob's comment
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// the post owner may
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// empty comments are rejected
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bobToken,
		map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeleteCommentWrongPost(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupUser(t, app, "alice")

	postA := createPost(t, app, aliceToken, "post a")
	postB := createPost(t, app, aliceToken, "post b")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postA.ID), aliceToken,
		map[string]string{"content": "on a"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)

	// addressing the comment through the wrong post is a not-found
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", postB.ID, comment.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestProfileUpdate(t *testing.T) {
	_, app := newTestServer(t)
	userID, token := signupUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeBody(t, resp, &me)
	require.NotNil(t, me.Profile)
	assert.Contains(t, me.Profile.AvatarURL, "gravatar.com")

	resp = doJSON(t, app, http.MethodPut, "/api/profile", token, map[string]string{
		"bio":      "hello there",
		"location": "Berlin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "hello there", profile.Bio)
	assert.Equal(t, "Berlin", profile.Location)

	// partial update leaves other fields alone
	resp = doJSON(t, app, http.MethodPut, "/api/profile", token, map[string]string{
		"bio": "updated",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &profile)
	assert.Equal(t, "updated", profile.Bio)
	assert.Equal(t, "Berlin", profile.Location)

	// publicly visible
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var public models.User
	decodeBody(t, resp, &public)
	require.NotNil(t, public.Profile)
	assert.Equal(t, "updated", public.Profile.Bio)
}
