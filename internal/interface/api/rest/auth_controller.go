package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	dto "identity-api/internal/interface/api/rest/dto/user"
	"identity-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	authService ports.Auth
	validator   *validator.Validator
}

func NewAuthController(
	r gin.IRouter,
	logger *zap.Logger,
	authService ports.Auth,
	v *validator.Validator,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
		validator:   v,
	}

	r.POST(RouteLogin, ac.LoginHandler)

	return ac
}

// LoginHandler takes the OAuth2 password form: username is the email.
func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	req.Normalize()
	if errs := ac.validator.Struct(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
			return
		}
		respondError(c, ac.logger, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
