package util

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Bytes 非 UTF-8 字节按常见中文编码尝试解码，均失败时原样返回
func EnsureUTF8Bytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	encs := []encoding.Encoding{
		simplifiedchinese.GB18030,
		simplifiedchinese.GBK,
		traditionalchinese.Big5,
	}
	for _, enc := range encs {
		if s, ok := tryDecode(enc, b); ok {
			return s
		}
	}
	return string(b)
}

// EnsureUTF8 修复后台返回的主机名、机架等可能为 GBK 的文本
func EnsureUTF8(s string) string {
	return EnsureUTF8Bytes([]byte(s))
}

func tryDecode(enc encoding.Encoding, b []byte) (string, bool) {
	reader := transform.NewReader(bytes.NewReader(b), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", false
	}
	if utf8.Valid(decoded) {
		return string(decoded), true
	}
	return "", false
}

// Encoder 按名称返回编码器，utf-8 或空串返回 nil
func Encoder(name string) (*encoding.Encoder, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, true
	case "gbk":
		return simplifiedchinese.GBK.NewEncoder(), true
	case "gb18030":
		return simplifiedchinese.GB18030.NewEncoder(), true
	default:
		return nil, false
	}
}

// Transcode 将 UTF-8 内容转为目标编码（Excel 打开中文 CSV 需要 GBK）
func Transcode(data []byte, name string) ([]byte, error) {
	enc, ok := Encoder(name)
	if !ok {
		return nil, &UnsupportedEncodingError{Name: name}
	}
	if enc == nil {
		return data, nil
	}
	out, _, err := transform.Bytes(enc, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnsupportedEncodingError 不支持的编码名称
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return "unsupported encoding: " + e.Name
}
