// Package collectionpolicy decides who may act on a collection and on
// everything scoped under it (images, schemas, annotations).
//
// A collection is accessible to its owner and to its explicit members.
// The owner does not need to appear in the member list, and may or may not;
// every rule here holds in both states.
package collectionpolicy

import (
	"context"
	"errors"
	"strings"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsOwner reports whether email belongs to the owner of c.
func IsOwner(c *model.Collection, email string) bool {
	if c == nil || email == "" {
		return false
	}
	return sameEmail(c.Owner.Email, email)
}

// IsMember reports whether email is in the explicit member list of c.
// A nil member list means no members.
func IsMember(c *model.Collection, email string) bool {
	if c == nil || email == "" {
		return false
	}
	for _, m := range c.Members {
		if sameEmail(m.Email, email) {
			return true
		}
	}
	return false
}

// CanAccess reports whether email may read and write the collection.
func CanAccess(c *model.Collection, email string) bool {
	return IsOwner(c, email) || IsMember(c, email)
}

// RoleOf returns the role email holds on c.
func RoleOf(c *model.Collection, email string) constant.CollectionRole {
	switch {
	case IsOwner(c, email):
		return constant.CollectionRoleOwner
	case IsMember(c, email):
		return constant.CollectionRoleMember
	default:
		return constant.CollectionRoleNone
	}
}

// ValidateEmail checks the syntax of an email used in a membership change.
func ValidateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return apperror.BadRequest("email", "invalid email")
	}
	return nil
}

// CheckAddMember validates adding email to c. skip is true when the change
// would not alter the member set: the email is the owner's or already a member.
func CheckAddMember(c *model.Collection, email string) (skip bool, err error) {
	if err := ValidateEmail(email); err != nil {
		return false, err
	}

	if IsOwner(c, email) || IsMember(c, email) {
		return true, nil
	}

	return false, nil
}

// CheckRemoveMember validates removing email from c. The owner can never be
// removed, even if also listed as a member. skip is true when email is not a member.
func CheckRemoveMember(c *model.Collection, email string) (skip bool, err error) {
	if err := ValidateEmail(email); err != nil {
		return false, err
	}

	if IsOwner(c, email) {
		return false, apperror.BadRequest("email", "cannot remove the owner of the collection")
	}

	if !IsMember(c, email) {
		return true, nil
	}

	return false, nil
}

// CollectionLoader loads a collection together with its owner and members.
// It returns gorm.ErrRecordNotFound when no such collection exists.
type CollectionLoader interface {
	GetWithMembers(ctx context.Context, tx *gorm.DB, collectionID uint) (*model.Collection, error)
}

// Gate is the single authorization check every collection-scoped request goes through.
type Gate struct {
	loader CollectionLoader
	logger *zap.SugaredLogger
}

func NewGate(loader CollectionLoader, logger *zap.SugaredLogger) *Gate {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gate{loader: loader, logger: logger}
}

// Authorize loads the collection and returns it when email may access it.
// It fails with a not found error when the collection does not exist and
// with a forbidden error when email is neither owner nor member.
func (g Gate) Authorize(ctx context.Context, email string, collectionID uint) (*model.Collection, error) {
	c, err := g.loader.GetWithMembers(ctx, nil, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("collection")
		}
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("collection")
	}

	if !CanAccess(c, email) {
		g.logger.Debugf("Deny access to collection %d for %s", collectionID, email)
		return nil, apperror.Forbidden("you do not have permission to access this collection")
	}

	return c, nil
}

// AuthorizeOwner is Authorize restricted to the owner.
func (g Gate) AuthorizeOwner(ctx context.Context, email string, collectionID uint) (*model.Collection, error) {
	c, err := g.Authorize(ctx, email, collectionID)
	if err != nil {
		return nil, err
	}

	if !IsOwner(c, email) {
		return nil, apperror.Forbidden("only the owner of the collection can do this")
	}

	return c, nil
}
