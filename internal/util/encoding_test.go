package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestEnsureUTF8(t *testing.T) {
	assert.Equal(t, "", EnsureUTF8(""))
	assert.Equal(t, "公共资源池", EnsureUTF8("公共资源池"))

	gbk, err := simplifiedchinese.GBK.NewEncoder().String("深圳机房")
	require.NoError(t, err)
	assert.Equal(t, "深圳机房", EnsureUTF8(gbk))
}

func TestTranscode(t *testing.T) {
	out, err := Transcode([]byte("ip,城市\n"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "ip,城市\n", string(out))

	out, err = Transcode([]byte("ip,城市\n"), "GBK")
	require.NoError(t, err)
	assert.NotEqual(t, "ip,城市\n", string(out))
	assert.Equal(t, "ip,城市\n", EnsureUTF8Bytes(out))

	_, err = Transcode([]byte("x"), "latin9")
	var ue *UnsupportedEncodingError
	assert.ErrorAs(t, err, &ue)
}
