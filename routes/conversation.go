package routes

import (
	"jobmarket-server/models"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CreateConversation finds or creates the conversation between the caller
// (seeker) and an employer, optionally anchored to a job post.
func CreateConversation(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input ConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.EmployerID == claims.ID {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_peer", "Cannot open a conversation with yourself.")
		return
	}

	q := storage.DB.Where("seeker_id = ? AND employer_id = ?", claims.ID, input.EmployerID)
	if input.JobPostID != nil {
		q = q.Where("job_post_id = ?", *input.JobPostID)
	} else {
		q = q.Where("job_post_id IS NULL")
	}

	var conversation models.Conversation
	found := q.Limit(1).Find(&conversation)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected > 0 {
		ctx.JSON(&conversation)
		return
	}

	conversation = models.Conversation{
		SeekerID:   claims.ID,
		EmployerID: input.EmployerID,
		JobPostID:  input.JobPostID,
	}
	if err := storage.DB.Create(&conversation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&conversation)
}

// ListConversations returns every conversation the caller is part of, either
// side, newest activity first.
func ListConversations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var conversations []models.Conversation
	if err := storage.DB.
		Where("seeker_id = ? OR employer_id = ?", claims.ID, claims.ID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"conversations": conversations})
}

type ConversationInput struct {
	EmployerID uint  `json:"employerID" validate:"required"`
	JobPostID  *uint `json:"jobPostID"`
}
