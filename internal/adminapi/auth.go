package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/martlabs/stockmate/internal/webserver"
)

type tokenPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// registerAuthRoutes registers the token endpoint. When no JWT secret is
// configured the API group is open and this endpoint is not registered.
func registerAuthRoutes(secret string) {
	if secret == "" {
		return
	}
	webserver.PubPOST("/auth/token", issueToken(secret))
}

func issueToken(secret string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var payload tokenPayload
		if err := c.Bind(&payload); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
		}
		if err := c.Validate(&payload); err != nil {
			return handleValidationError(c, err)
		}

		web := GetAppContext(c).Config().Web
		if payload.Username != web.AdminUsername || payload.Password != web.AdminPassword {
			return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		}

		claims := jwt.MapClaims{
			"sub": payload.Username,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(24 * time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
		}

		return ok(c, map[string]interface{}{
			"token":      signed,
			"token_type": "Bearer",
			"expires_in": int64((24 * time.Hour).Seconds()),
		})
	}
}
