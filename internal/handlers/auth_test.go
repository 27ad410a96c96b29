package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/models"
)

func (suite *APITestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestLogin_ReturnsTokenForOwnWorkspace() {
	resp := suite.login("ANN@alpha.test")

	assert.Equal(suite.T(), suite.ann.ID, resp.User.ID)
	assert.Equal(suite.T(), "alpha", resp.Workspace.Slug)
	assert.NotEmpty(suite.T(), resp.Token)
	assert.False(suite.T(), resp.ExpiresAt.IsZero())
}

func (suite *APITestSuite) TestLogin_InvalidCredentials() {
	w := suite.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@alpha.test", "password": "wrong-password"})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidCredentials, suite.errorCode(w))
}

func (suite *APITestSuite) TestLogin_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@alpha.test"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestMe_WithBearerToken() {
	w := suite.do(http.MethodGet, "/api/alpha/users/me", suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var me dto.MeResponse
	suite.decode(w, &me)
	assert.Equal(suite.T(), suite.ann.ID, me.User.ID)
	assert.Equal(suite.T(), suite.alpha.ID, me.Workspace.ID)
}

func (suite *APITestSuite) TestMe_WithSessionCookie() {
	login := suite.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@alpha.test", "password": "password123"})
	suite.Require().Equal(http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/alpha/users/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// The session does not grant access to another workspace.
	req = httptest.NewRequest(http.MethodGet, "/api/beta/users/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestUnauthenticated() {
	w := suite.do(http.MethodGet, "/api/alpha/channels", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/alpha/channels", "not-a-token", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestUnknownWorkspace() {
	w := suite.do(http.MethodGet, "/api/nowhere/channels", suite.annToken, nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeWorkspaceNotFound, suite.errorCode(w))
}

func (suite *APITestSuite) TestNonMemberIsForbidden() {
	w := suite.do(http.MethodGet, "/api/alpha/channels", suite.bobToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/alpha/channels", suite.bobToken, gin.H{"name": "intruders"})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Channel{}))
}

func (suite *APITestSuite) TestGetWorkspace_IsPublic() {
	w := suite.do(http.MethodGet, "/api/alpha", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var ws dto.WorkspaceDTO
	suite.decode(w, &ws)
	assert.Equal(suite.T(), "alpha", ws.Slug)
	assert.True(suite.T(), ws.AllowSelfSignup)
}

func (suite *APITestSuite) TestRegister() {
	w := suite.do(http.MethodPost, "/api/alpha/register", "", gin.H{
		"email":    "carol@alpha.test",
		"password": "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	suite.decode(w, &user)
	assert.Equal(suite.T(), suite.alpha.ID, user.WorkspaceID)
	assert.Equal(suite.T(), "carol", user.DisplayName)

	resp := suite.login("carol@alpha.test")
	assert.Equal(suite.T(), "alpha", resp.Workspace.Slug)

	// Emails are unique across workspaces.
	w = suite.do(http.MethodPost, "/api/beta/register", "", gin.H{
		"email":    "carol@alpha.test",
		"password": "password123",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *APITestSuite) TestRegister_Validation() {
	w := suite.do(http.MethodPost, "/api/alpha/register", "", gin.H{"email": "not-an-email", "password": "password123"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/alpha/register", "", gin.H{"email": "dan@alpha.test", "password": "short"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/nowhere/register", "", gin.H{"email": "dan@alpha.test", "password": "password123"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestRotateJoinCode() {
	w := suite.do(http.MethodPost, "/api/alpha/join-code", suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.JoinCodeResponse
	suite.decode(w, &resp)
	assert.NotEmpty(suite.T(), resp.JoinCode)

	suite.Require().NoError(suite.db.Model(&models.Workspace{}).Where("id = ?", suite.alpha.ID).Update("allow_self_signup", false).Error)

	w = suite.do(http.MethodPost, "/api/alpha/register", "", gin.H{
		"email":     "erin@alpha.test",
		"password":  "password123",
		"join_code": "wrong",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/alpha/register", "", gin.H{
		"email":     "erin@alpha.test",
		"password":  "password123",
		"join_code": resp.JoinCode,
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
}

func (suite *APITestSuite) TestLogout() {
	w := suite.do(http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}
