package handlers

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/models"
)

func (suite *APITestSuite) upload(slug, token, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", "text/plain")
		part, err := mw.CreatePart(header)
		suite.Require().NoError(err)
		_, err = part.Write([]byte(content))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/"+slug+"/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) TestMedia_UploadAndDownload() {
	ch := suite.createChannel("alpha", suite.annToken, "files")
	pub := suite.createPublication("alpha", suite.annToken, ch.ID, "Notes")

	w := suite.upload("alpha", suite.annToken, "notes.txt", "hello media", map[string]string{
		"publication_id": fmt.Sprint(pub.ID),
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var media dto.MediaDTO
	suite.decode(w, &media)
	assert.Equal(suite.T(), "notes.txt", media.OriginalName)
	assert.Equal(suite.T(), "text/plain", media.MimeType)
	assert.Equal(suite.T(), int64(len("hello media")), media.Size)
	assert.True(suite.T(), strings.HasPrefix(media.Path, "alpha/"), media.Path)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/media/%d/content", media.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "hello media", w.Body.String())
	assert.Contains(suite.T(), w.Header().Get("Content-Disposition"), "notes.txt")

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/beta/media/%d/content", media.ID), suite.bobToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/media?publication_id=%d", pub.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[dto.MediaDTO]
	suite.decode(w, &list)
	assert.Len(suite.T(), list.Items, 1)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/alpha/media/%d", media.ID), suite.annToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Media{}))
}

func (suite *APITestSuite) TestMedia_TooLarge() {
	w := suite.upload("alpha", suite.annToken, "big.bin", strings.Repeat("x", testUploadLimit+1), nil)

	assert.Equal(suite.T(), http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodePayloadTooLarge, suite.errorCode(w))
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Media{}))
}

func (suite *APITestSuite) TestMedia_Validation() {
	w := suite.upload("alpha", suite.annToken, "", "", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.upload("alpha", suite.annToken, "a.txt", "a", map[string]string{"publication_id": "abc"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	betaChannel := suite.createChannel("beta", suite.bobToken, "files")
	betaPub := suite.createPublication("beta", suite.bobToken, betaChannel.ID, "Theirs")
	w = suite.upload("alpha", suite.annToken, "a.txt", "a", map[string]string{"publication_id": fmt.Sprint(betaPub.ID)})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apierrors.ErrCodeCrossTenant, suite.errorCode(w))
	assert.Equal(suite.T(), int64(0), suite.unscopedCount(&models.Media{}))
}

func (suite *APITestSuite) TestMedia_DownloadNonASCIIName() {
	w := suite.upload("alpha", suite.annToken, "résumé.txt", "cv", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var media dto.MediaDTO
	suite.decode(w, &media)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/alpha/media/%d/content", media.ID), suite.annToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.NotContains(suite.T(), disposition, `\u00e9`)
	kind, params, err := mime.ParseMediaType(disposition)
	suite.Require().NoError(err, disposition)
	assert.Equal(suite.T(), "attachment", kind)
	assert.Equal(suite.T(), "résumé.txt", params["filename"])
}
