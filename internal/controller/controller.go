package controller

import (
	"errors"
	"fmt"
	"strconv"

	appcontext "github.com/SeakMengs/Annotator/internal/app_context"
	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	User       *UserController
	Index      *IndexController
	Auth       *AuthController
	OAuth      *OAuthController
	Collection *CollectionController
	Member     *MemberController
	Schema     *SchemaController
	Image      *ImageController
	Annotation *AnnotationController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		User:       &UserController{baseController: bc},
		Index:      &IndexController{baseController: bc},
		Auth:       &AuthController{baseController: bc},
		OAuth:      &OAuthController{baseController: bc},
		Collection: &CollectionController{baseController: bc},
		Member:     &MemberController{baseController: bc},
		Schema:     &SchemaController{baseController: bc},
		Image:      &ImageController{baseController: bc},
		Annotation: &AnnotationController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get(constant.CTX_USER)
	if !exists {
		return nil, errors.New("user not found in context")
	}

	authUser, ok := user.(auth.JWTPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected user type %T in context", user)
	}

	return &authUser, nil
}

// getCollection returns the collection loaded by the CollectionAccess middleware.
func (b *baseController) getCollection(ctx *gin.Context) (*model.Collection, error) {
	value, exists := ctx.Get(constant.CTX_COLLECTION)
	if !exists {
		return nil, errors.New("collection not found in context")
	}

	collection, ok := value.(*model.Collection)
	if !ok {
		return nil, fmt.Errorf("unexpected collection type %T in context", value)
	}

	return collection, nil
}

func (b *baseController) getAuthUserAndCollection(ctx *gin.Context) (*auth.JWTPayload, *model.Collection, error) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	collection, err := b.getCollection(ctx)
	if err != nil {
		return nil, nil, err
	}

	return user, collection, nil
}

func paramUint(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || value == 0 {
		return 0, apperror.BadRequest(name, fmt.Sprintf("%s must be a positive integer", name))
	}

	return uint(value), nil
}
