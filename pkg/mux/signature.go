package mux

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"NewTube.com/pkg/errno"
)

const DefaultTolerance = 5 * time.Minute

// VerifySignature 校验 Mux-Signature: t=<unix>,v1=<hex>.
// v1 为 HMAC-SHA256(secret, "<t>.<body>")
func VerifySignature(header string, body []byte, secret string, tolerance time.Duration, now time.Time) error {
	if secret == "" {
		return errno.ServiceErr.WithMessage("webhook secret is not configured")
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errno.SignatureErr.WithMessage("malformed signature header")
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errno.SignatureErr.WithMessage("malformed signature timestamp")
	}
	if age := now.Sub(time.Unix(unix, 0)); age > tolerance || age < -tolerance {
		return errno.SignatureErr.WithMessage("signature timestamp outside tolerance")
	}

	expected := sign(timestamp, body, secret)
	for _, sig := range signatures {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return errno.SignatureErr.WithMessage("signature mismatch")
}

// SignatureHeader 生成签名头, 与Mux的格式一致
func SignatureHeader(body []byte, secret string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	return "t=" + timestamp + ",v1=" + hex.EncodeToString(sign(timestamp, body, secret))
}

func sign(timestamp string, body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}
