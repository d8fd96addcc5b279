package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	"identity-api/internal/domain/user"
	dto "identity-api/internal/interface/api/rest/dto/user"
	"identity-api/internal/interface/api/rest/middleware"
	"identity-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	validator   *validator.Validator
	logger      *zap.Logger
}

func NewUserController(
	r gin.IRouter,
	userService ports.UserService,
	authMW gin.HandlerFunc,
	v *validator.Validator,
	logger *zap.Logger,
) *UserController {
	uc := &UserController{
		userService: userService,
		validator:   v,
		logger:      logger,
	}

	r.POST(RouteUser, uc.CreateUserHandler)
	r.GET(RouteUser, authMW, uc.GetUserHandler)
	r.PATCH(RouteUser, authMW, uc.UpdateUserHandler)
	r.DELETE(RouteUser, authMW, uc.DeleteUserHandler)
	r.PATCH(RouteAdminPrivilege, authMW, uc.GrantAdminHandler)
	r.DELETE(RouteAdminPrivilege, authMW, uc.RevokeAdminHandler)

	return uc
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req dto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	req.Normalize()
	if errs := uc.validator.Struct(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	u, err := uc.userService.CreateUser(c.Request.Context(), dto.ToDomainNewUser(req))
	if err != nil {
		respondError(c, uc.logger, err, "failed to create a user")
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseUser(*u))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.logger, err, "failed to get a user")
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseUser(*u))
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	caller, id, ok := callerAndTarget(c)
	if !ok {
		return
	}

	var req dto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	if req.IsEmpty() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": user.ErrEmptyUpdate.Error()})
		return
	}
	req.Normalize()
	if errs := uc.validator.Struct(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	updatedID, err := uc.userService.UpdateUser(c.Request.Context(), caller, id, dto.ToDomainUpdate(req))
	if err != nil {
		respondErrorWith(c, uc.logger, err, "failed to update a user", updateDenials)
		return
	}

	c.JSON(http.StatusOK, dto.Updated{UpdatedUserID: updatedID})
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	caller, id, ok := callerAndTarget(c)
	if !ok {
		return
	}

	deletedID, err := uc.userService.DeleteUser(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, uc.logger, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, dto.Deleted{DeletedUserID: deletedID})
}

func (uc *UserController) GrantAdminHandler(c *gin.Context) {
	caller, id, ok := callerAndTarget(c)
	if !ok {
		return
	}

	updatedID, err := uc.userService.GrantAdmin(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, uc.logger, err, "failed to grant admin privileges")
		return
	}

	c.JSON(http.StatusOK, dto.Updated{UpdatedUserID: updatedID})
}

func (uc *UserController) RevokeAdminHandler(c *gin.Context) {
	caller, id, ok := callerAndTarget(c)
	if !ok {
		return
	}

	updatedID, err := uc.userService.RevokeAdmin(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, uc.logger, err, "failed to revoke admin privileges")
		return
	}

	c.JSON(http.StatusOK, dto.Updated{UpdatedUserID: updatedID})
}

func userIDParam(c *gin.Context) (user.UUID, bool) {
	ok, id := validator.IsUUID(c.Query("user_id"))
	if !ok {
		c.JSON(
			http.StatusUnprocessableEntity,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return id, false
	}
	return id, true
}

func callerAndTarget(c *gin.Context) (*user.User, user.UUID, bool) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
		return nil, user.UUID{}, false
	}
	id, ok := userIDParam(c)
	if !ok {
		return nil, id, false
	}
	return caller, id, true
}
