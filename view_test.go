package devcard_test

import (
	"testing"

	"github.com/devcard/devcard"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestNewProfileViewUrls(t *testing.T) {
	assert := assert.New(t)

	view := devcard.NewProfileView(devcard.Profile{
		UserId:   "taro",
		Name:     "Taro",
		GithubId: strPtr("taro-gh"),
		QiitaId:  nil,
		XId:      strPtr(""),
	}, nil)

	if assert.NotNil(view.GithubUrl) {
		assert.Equal("https://github.com/taro-gh", *view.GithubUrl)
	}
	assert.Nil(view.QiitaUrl)
	assert.Nil(view.XUrl, "an empty id must not produce a url")
	assert.Equal([]string{}, view.Skills)
}

func TestNewProfileViewKeepsDescriptionVerbatim(t *testing.T) {
	view := devcard.NewProfileView(devcard.Profile{
		UserId:      "taro",
		Description: `<script>alert("x")</script>`,
		QiitaId:     strPtr("taro"),
		XId:         strPtr("taro_x"),
	}, []string{"Go"})

	assert.Equal(t, `<script>alert("x")</script>`, view.Description)
	assert.Equal(t, "https://qiita.com/taro", *view.QiitaUrl)
	assert.Equal(t, "https://x.com/taro_x", *view.XUrl)
	assert.Equal(t, []string{"Go"}, view.Skills)
}
