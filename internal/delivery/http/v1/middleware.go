package v1

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"

	requestIDCtxKey = "request_id"
	subjectCtxKey   = "subject"
	loggerCtxKey    = "logger"
)

func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Set(loggerCtxKey, h.logger.With().Str("request_id", requestID).Logger())
	c.Header(requestIDHeader, requestID)
	c.Next()
}

// HandleAuthMiddleware verifies the bearer token issued by the external
// identity provider. Verification is skipped when no signing key is
// configured.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	if len(h.jwtSigningKey) == 0 {
		c.Next()
		return
	}
	log := h.log(c)

	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		log.Error().Msg("authorization header required")
		h.abort(c, newUnauthorizedError("authorization header required"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		log.Error().Msg("invalid authorization header")
		h.abort(c, newUnauthorizedError("invalid authorization header"))
		return
	}

	claims, err := h.parseJWTToken(parts[1])
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to parse token")
		h.abort(c, newUnauthorizedError("invalid token"))
		return
	}

	c.Set(subjectCtxKey, claims.Subject)
	c.Next()
}

func (h *handlerImpl) parseJWTToken(tokenString string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
	}
	if h.jwtIssuer != "" {
		opts = append(opts, jwt.WithIssuer(h.jwtIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return h.jwtSigningKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return claims, nil
}

// log returns the request scoped logger set by HandleRequestID.
func (h *handlerImpl) log(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerCtxKey); ok {
		if logger, ok := v.(zerolog.Logger); ok {
			return &logger
		}
	}
	return &h.logger
}
