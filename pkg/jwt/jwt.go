// Package jwt 校验身份提供方签发的会话令牌
package jwt

import (
	"context"
	"time"

	"NewTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	hertzjwt "github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"
)

type Options struct {
	Realm         string
	Key           []byte
	IdentityClaim string
	Timeout       time.Duration
}

// Verifier 只解析令牌, 不负责签发
type Verifier struct {
	mw            *hertzjwt.HertzJWTMiddleware
	identityClaim string
}

// NewVerifier 未配置签名密钥时返回错误
func NewVerifier(opts Options) (*Verifier, error) {
	if len(opts.Key) == 0 {
		return nil, errors.New("jwt signing key is not configured")
	}
	if opts.IdentityClaim == "" {
		opts.IdentityClaim = "sub"
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Hour
	}
	claim := opts.IdentityClaim
	mw, err := hertzjwt.New(&hertzjwt.HertzJWTMiddleware{
		Realm:         opts.Realm,
		Key:           opts.Key,
		Timeout:       opts.Timeout,
		IdentityKey:   claim,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) hertzjwt.MapClaims {
			if subject, ok := data.(string); ok {
				return hertzjwt.MapClaims{claim: subject}
			}
			return hertzjwt.MapClaims{}
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "init jwt middleware failed")
	}
	return &Verifier{mw: mw, identityClaim: claim}, nil
}

// Subject 返回令牌中的身份标识, 没有或无效时返回AuthorizationFailedErr
func (v *Verifier) Subject(ctx context.Context, c *app.RequestContext) (string, error) {
	claims, err := v.mw.GetClaimsFromJWT(ctx, c)
	if err != nil {
		return "", errno.AuthorizationFailedErr.WithMessage(err.Error())
	}
	subject, ok := claims[v.identityClaim].(string)
	if !ok || subject == "" {
		return "", errno.AuthorizationFailedErr.WithMessage("token has no identity")
	}
	return subject, nil
}

// Token 为subject签发令牌, 用于本地调试和测试
func (v *Verifier) Token(subject string) (string, error) {
	token, _, err := v.mw.TokenGenerator(subject)
	if err != nil {
		return "", errors.Wrap(err, "generate token failed")
	}
	return token, nil
}
