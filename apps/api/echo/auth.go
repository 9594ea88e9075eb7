package echoapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/iiw24/turma/core"
)

const sessionCookie = "session"

var nowFunc = time.Now // mockable

// Claims represents the admin session transmitted via a JWT cookie.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
}

type sessionAuth struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newSessionAuth(conf *core.Config) *sessionAuth {
	return &sessionAuth{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "sessionToken",
			Claims:        new(Claims),
			TokenLookup:   "cookie:" + sessionCookie,
		},
	}
}

// middleware rejects requests without a valid session cookie.
func (a *sessionAuth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

func (a *sessionAuth) newClaims(username string) *Claims {
	now := nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   username,
			ExpiresAt: now.Add(a.conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: username,
	}
}

// generateToken generates a signed JWT token string representing the Claims.
func (a *sessionAuth) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// authenticate checks the admin credentials. An unset password hash rejects every login.
func (a *sessionAuth) authenticate(username, password string) error {
	admin := a.conf.Admin
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	if admin.PasswordHash == "" {
		return errAuthenticationFailed
	}
	pwdErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if !userOK || pwdErr != nil {
		return errAuthenticationFailed
	}
	return nil
}

func (a *sessionAuth) setCookie(ctx echo.Context, token string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.conf.Env == "PROD",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	ctx.SetCookie(cookie)
}

func (a *sessionAuth) contextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(a.jwtConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextPerson identifies the requester for error reports.
func (a *sessionAuth) contextPerson(ctx echo.Context) core.Person {
	if claims, err := a.contextClaims(ctx); err == nil {
		return core.Person{ID: claims.Subject, Username: claims.Username}
	}
	return core.Person{ID: ctx.RealIP()}
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	OKResponse struct {
		OK bool `json:"ok"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Username = core.CleanString(r.Username)
	return validate.Struct(r)
}

type authApi struct {
	auth     *sessionAuth
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, session echo.MiddlewareFunc, auth *sessionAuth, validate *validator.Validate) {
	api := authApi{auth: auth, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/check", api.check, session)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.auth.authenticate(data.Username, data.Password); err != nil {
		return err
	}

	token, err := api.auth.generateToken(api.auth.newClaims(data.Username))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	api.auth.setCookie(ctx, token, api.auth.conf.Server.SessionExpirationDelta)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "login ok"})
}

func (api *authApi) logout(ctx echo.Context) error {
	api.auth.setCookie(ctx, "", -1)
	return ctx.JSON(http.StatusOK, OKResponse{OK: true})
}

func (api *authApi) check(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, OKResponse{OK: true})
}
