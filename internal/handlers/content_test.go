package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/models"
)

func (suite *APITestSuite) TestChannels_CRUD() {
	ch := suite.createChannel("alpha", suite.annToken, "General Talk")
	assert.Equal(suite.T(), "general-talk", ch.Slug)
	assert.Equal(suite.T(), suite.alpha.ID, ch.WorkspaceID)

	second := suite.createChannel("alpha", suite.annToken, "General Talk")
	assert.Equal(suite.T(), "general-talk-2", second.Slug)

	w := suite.do(http.MethodGet, "/api/alpha/channels", suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[dto.ChannelDTO]
	suite.decode(w, &list)
	assert.Len(suite.T(), list.Items, 2)
	assert.Equal(suite.T(), int64(2), list.Pagination.Total)

	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/alpha/channels/%d", ch.ID), suite.annToken, gin.H{"name": "Renamed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.ChannelDTO
	suite.decode(w, &updated)
	assert.Equal(suite.T(), "Renamed", updated.Name)
	assert.Equal(suite.T(), "general-talk", updated.Slug)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/alpha/channels/%d", ch.ID), suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/channels/%d", ch.ID), suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestChannels_BodyIDIsIgnored() {
	existing := suite.createChannel("alpha", suite.annToken, "first")

	w := suite.do(http.MethodPost, "/api/alpha/channels", suite.annToken, gin.H{"id": existing.ID, "name": "second"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.ChannelDTO
	suite.decode(w, &created)
	assert.NotEqual(suite.T(), existing.ID, created.ID)
	assert.Equal(suite.T(), int64(2), suite.unscopedCount(&models.Channel{}))

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/channels/%d", existing.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var unchanged dto.ChannelDTO
	suite.decode(w, &unchanged)
	assert.Equal(suite.T(), "first", unchanged.Name)
}

func (suite *APITestSuite) TestChannels_InvalidInput() {
	w := suite.do(http.MethodPost, "/api/alpha/channels", suite.annToken, gin.H{"name": "x", "slug": "a/b"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/alpha/channels/abc", suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestChannels_ExplicitSlug() {
	w := suite.do(http.MethodPost, "/api/alpha/channels", suite.annToken, gin.H{"name": "x", "slug": "Team News"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var ch dto.ChannelDTO
	suite.decode(w, &ch)
	assert.Equal(suite.T(), "Team News", ch.Slug)

	w = suite.do(http.MethodPost, "/api/alpha/channels", suite.annToken, gin.H{"name": "y", "slug": "Team News"})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeAlreadyExists, suite.errorCode(w))
}

func (suite *APITestSuite) TestOtherWorkspaceRowsAreInvisible() {
	betaChannel := suite.createChannel("beta", suite.bobToken, "secret")

	path := fmt.Sprintf("/api/alpha/channels/%d", betaChannel.ID)
	assert.Equal(suite.T(), http.StatusNotFound, suite.do(http.MethodGet, path, suite.annToken, nil).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.do(http.MethodPatch, path, suite.annToken, gin.H{"name": "owned"}).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.do(http.MethodDelete, path, suite.annToken, nil).Code)

	w := suite.do(http.MethodGet, "/api/alpha/channels", suite.annToken, nil)
	var list dto.ListResponse[dto.ChannelDTO]
	suite.decode(w, &list)
	assert.Empty(suite.T(), list.Items)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/beta/channels/%d", betaChannel.ID), suite.bobToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var still dto.ChannelDTO
	suite.decode(w, &still)
	assert.Equal(suite.T(), "secret", still.Name)
}

func (suite *APITestSuite) TestPublications_CrossTenantChannel() {
	betaChannel := suite.createChannel("beta", suite.bobToken, "news")

	w := suite.do(http.MethodPost, "/api/alpha/publications", suite.annToken, gin.H{
		"channel_id": betaChannel.ID,
		"title":      "Leak",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	assert.Equal(suite.T(), apierrors.ErrCodeCrossTenant, apiErr.Code)
	assert.Equal(suite.T(), map[string]interface{}{"field": "channel_id"}, apiErr.Details)
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Publication{}))
}

func (suite *APITestSuite) TestPublications_MissingChannel() {
	w := suite.do(http.MethodPost, "/api/alpha/publications", suite.annToken, gin.H{"channel_id": 999, "title": "Orphan"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeReferenceNotFound, suite.errorCode(w))
}

func (suite *APITestSuite) TestPublications_CreateListUpdate() {
	ch := suite.createChannel("alpha", suite.annToken, "news")
	pub := suite.createPublication("alpha", suite.annToken, ch.ID, "Hello World")

	suite.Require().NotNil(pub.Slug)
	assert.Equal(suite.T(), "hello-world", *pub.Slug)
	suite.Require().NotNil(pub.AuthorID)
	assert.Equal(suite.T(), suite.ann.ID, *pub.AuthorID)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/publications?channel_id=%d", ch.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[dto.PublicationDTO]
	suite.decode(w, &list)
	suite.Require().Len(list.Items, 1)
	assert.Equal(suite.T(), pub.ID, list.Items[0].ID)

	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/alpha/publications/%d", pub.ID), suite.annToken, gin.H{"title": "Changed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.PublicationDTO
	suite.decode(w, &updated)
	assert.Equal(suite.T(), "Changed", updated.Title)
	assert.Equal(suite.T(), "hello-world", *updated.Slug)

	w = suite.do(http.MethodGet, "/api/alpha/publications?channel_id=zero", suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestCommentsAndReactions() {
	ch := suite.createChannel("alpha", suite.annToken, "news")
	pub := suite.createPublication("alpha", suite.annToken, ch.ID, "Post")

	w := suite.do(http.MethodPost, "/api/alpha/comments", suite.annToken, gin.H{"publication_id": pub.ID, "body": "first"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var comment dto.CommentDTO
	suite.decode(w, &comment)

	w = suite.do(http.MethodPost, "/api/alpha/comments", suite.annToken, gin.H{
		"publication_id": pub.ID,
		"parent_id":      comment.ID,
		"body":           "reply",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/comments?parent_id=%d", comment.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var replies dto.ListResponse[dto.CommentDTO]
	suite.decode(w, &replies)
	assert.Len(suite.T(), replies.Items, 1)

	w = suite.do(http.MethodPost, "/api/alpha/reactions", suite.annToken, gin.H{"publication_id": pub.ID, "type": "like"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reaction dto.ReactionDTO
	suite.decode(w, &reaction)

	w = suite.do(http.MethodPost, "/api/alpha/reactions", suite.annToken, gin.H{"publication_id": pub.ID, "type": "like"})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/alpha/reactions", suite.annToken, gin.H{
		"publication_id": pub.ID,
		"comment_id":     comment.ID,
		"type":           "like",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidTarget, suite.errorCode(w))

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/alpha/reactions/%d", reaction.ID), suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Deleting the publication removes its thread.
	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/alpha/publications/%d", pub.ID), suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Comment{}))
}

func (suite *APITestSuite) TestComments_CrossTenantPublication() {
	betaChannel := suite.createChannel("beta", suite.bobToken, "news")
	betaPub := suite.createPublication("beta", suite.bobToken, betaChannel.ID, "Private")

	w := suite.do(http.MethodPost, "/api/alpha/comments", suite.annToken, gin.H{"publication_id": betaPub.ID, "body": "peek"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeCrossTenant, suite.errorCode(w))

	w = suite.do(http.MethodPost, "/api/alpha/reactions", suite.annToken, gin.H{"publication_id": betaPub.ID, "type": "like"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Comment{}))
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Reaction{}))
}
