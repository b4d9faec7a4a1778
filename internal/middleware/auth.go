package middleware

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/cart/api/transport"
	"github.com/fastygo/cart/domain"
)

// CartClaims binds a bearer token to exactly one cart.
type CartClaims struct {
	CartID string `json:"cart_id"`
	jwt.RegisteredClaims
}

// CartTokens issues and verifies cart tokens. A zero value (no secret) disables the guard.
type CartTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewCartTokens(secret, issuer string, ttl time.Duration) *CartTokens {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &CartTokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Enabled reports whether tokens are issued and enforced.
func (t *CartTokens) Enabled() bool {
	return t != nil && len(t.secret) > 0
}

// Issue signs a token for cartID; it returns "" when tokens are disabled.
func (t *CartTokens) Issue(cartID string) (string, error) {
	if !t.Enabled() {
		return "", nil
	}
	now := t.now()
	claims := CartClaims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   cartID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses tokenString and returns the cart it was issued for.
func (t *CartTokens) Verify(tokenString string) (string, error) {
	claims := &CartClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return "", domain.NewError(domain.ErrCodeUnauthorized, "invalid token issuer")
	}
	return claims.CartID, nil
}

// CartGuard rejects requests whose bearer token was not issued for the {id} route parameter.
func CartGuard(tokens *CartTokens, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if !tokens.Enabled() {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				deny(ctx, fasthttp.StatusUnauthorized, domain.ErrCodeUnauthorized, "missing token")
				return
			}

			cartID, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("invalid cart token", zap.Error(err))
				deny(ctx, fasthttp.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid token")
				return
			}

			if pathID, _ := ctx.UserValue("id").(string); pathID != cartID {
				logger.Warn("cart token used for another cart", zap.String("cart_id", pathID))
				deny(ctx, fasthttp.StatusForbidden, domain.ErrCodeForbidden, "token does not grant access to this cart")
				return
			}

			next(ctx)
		}
	}
}

func deny(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	body, _ := json.Marshal(transport.NewError(string(code), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
