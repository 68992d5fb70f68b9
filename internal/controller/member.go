package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/mailer"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/queue"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type MemberController struct {
	*baseController
}

type memberRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

func (mc MemberController) ListMembers(ctx *gin.Context) {
	collection, err := mc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	members := collection.Members
	if members == nil {
		members = []model.User{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"owner":   collection.Owner,
		"members": members,
	})
}

// AddMember is idempotent: adding the owner or an existing member succeeds without a change.
func (mc MemberController) AddMember(ctx *gin.Context) {
	var body memberRequest

	user, collection, err := mc.getAuthUserAndCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	member, added, err := mc.app.Repository.Collection.AddMember(ctx, nil, collection, body.Email)
	if err != nil {
		util.ResponseError(ctx, "Failed to add member", err)
		return
	}

	if added {
		mc.sendInvite(ctx, *user, *collection, *member)
	}

	util.ResponseSuccess(ctx, gin.H{
		"added":   added,
		"members": collection.Members,
	})
}

func (mc MemberController) RemoveMember(ctx *gin.Context) {
	var body memberRequest

	collection, err := mc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	removed, err := mc.app.Repository.Collection.RemoveMember(ctx, nil, collection, body.Email)
	if err != nil {
		util.ResponseError(ctx, "Failed to remove member", err)
		return
	}

	members := collection.Members
	if members == nil {
		members = []model.User{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"removed": removed,
		"members": members,
	})
}

// sendInvite hands the invitation to the mail queue, or mails it in the
// background when no queue is configured. Failures are only logged.
func (mc MemberController) sendInvite(ctx *gin.Context, inviter auth.JWTPayload, collection model.Collection, member model.User) {
	frontURL := strings.TrimRight(mc.app.Config.FrontURL, "/")
	data := mailer.CollectionInviteData{
		AppName:        util.GetAppName(),
		LogoURL:        util.GetAppLogoURL(frontURL),
		InviterName:    strings.TrimSpace(inviter.FirstName + " " + inviter.LastName),
		InviterEmail:   inviter.Email,
		CollectionName: collection.Name,
		CollectionURL:  fmt.Sprintf("%s/collections/%d", frontURL, collection.ID),
	}
	toUsername := strings.TrimSpace(member.FirstName + " " + member.LastName)

	if mc.app.MailQueue != nil {
		job, err := queue.NewCollectionInviteMailJob(toUsername, member.Email, data)
		if err == nil {
			err = mc.app.MailQueue.PublishMailJob(ctx, job)
		}
		if err != nil {
			mc.app.Logger.Warnf("Failed to queue collection invite to %s: %v", member.Email, err)
		}
		return
	}

	if mc.app.Mailer == nil {
		return
	}

	go func() {
		if _, err := mc.app.Mailer.Send(mailer.COLLECTION_INVITE_TEMPLATE, toUsername, member.Email, data); err != nil {
			mc.app.Logger.Warnf("Failed to send collection invite to %s: %v", member.Email, err)
		}
	}()
}
