package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/logger"
)

const cartSessionIssuer = "storefront-cart"

// CartSessionOptions は匿名カートcookieの設定
type CartSessionOptions struct {
	Secret []byte
	MaxAge time.Duration
	Secure bool
}

// CartSession は署名付きcookieから匿名カートIDを取り出す。
// 無い・壊れている・署名不一致なら新しいIDを発行する。
// 有効期限が残り半分を切ったら同じIDで張り直す。
func CartSession(opts CartSessionOptions, log *logger.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			cartID := ""
			reissue := true
			if ck, err := c.Cookie(CookieCartSession); err == nil && ck.Value != "" {
				claims, err := parseCartClaims(ck.Value, opts.Secret)
				if err == nil {
					cartID = claims.Subject
					reissue = needsRefresh(claims, now, opts.MaxAge)
				}
			}
			if cartID == "" {
				cartID = uuid.NewString()
			}

			if reissue {
				signed, err := signCartToken(cartID, opts.Secret, now, opts.MaxAge)
				if err != nil {
					log.Error(c.Request().Context(), "sign cart session", err)
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieCartSession,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			//contextへ保存
			c.Set(CtxCartIDKey, cartID)
			req := c.Request()
			c.SetRequest(req.WithContext(log.WithCartID(req.Context(), cartID)))

			return next(c)
		}
	}
}

func signCartToken(cartID string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   cartSessionIssuer,
		Subject:  cartID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// 残り期限が半分未満なら張り直し。期限なしのcookieはそのまま
func needsRefresh(claims jwt.RegisteredClaims, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Sub(now) < ttl/2
}

func parseCartToken(raw string, secret []byte) (string, error) {
	claims, err := parseCartClaims(raw, secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func parseCartClaims(raw string, secret []byte) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cartSessionIssuer),
	)
	if err != nil {
		return jwt.RegisteredClaims{}, err
	}

	//subはUUIDのみ
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return jwt.RegisteredClaims{}, errors.New("invalid cart id")
	}
	return claims, nil
}
