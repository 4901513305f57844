package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActorClaims 外部身份服务签发的令牌载荷
type ActorClaims struct {
	ActorID uint   `json:"actor_id"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

var ErrTokenInvalid = errors.New("token invalid")

// ParseActorToken 校验 HS256 令牌并提取操作人
func ParseActorToken(tokenString, secretKey, issuer string) (Actor, error) {
	if strings.TrimSpace(tokenString) == "" || secretKey == "" {
		return Actor{}, ErrTokenInvalid
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(options...)
	claims := &ActorClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.ActorID == 0 || claims.Role == "" {
		return Actor{}, ErrTokenInvalid
	}
	return Actor{
		ID:   claims.ActorID,
		Role: strings.ToLower(strings.TrimSpace(claims.Role)),
		Name: claims.Name,
	}, nil
}

// SignActorToken 签发操作人令牌（种子数据与测试用）
func SignActorToken(actor Actor, secretKey, issuer string, ttl time.Duration) (string, error) {
	if secretKey == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	claims := ActorClaims{
		ActorID: actor.ID,
		Role:    actor.Role,
		Name:    actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
