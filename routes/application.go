package routes

import (
	"time"

	"jobmarket-server/models"
	"jobmarket-server/services"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// applicationTransitions is the employer-side status pipeline. Keys are the
// current status; values are the statuses an employer may move to.
var applicationTransitions = map[string][]string{
	"submitted":   {"in_review", "rejected"},
	"in_review":   {"shortlisted", "rejected"},
	"shortlisted": {"offer", "rejected"},
	"offer":       {"accepted", "rejected"},
}

// terminal statuses; nobody moves an application out of these.
var applicationTerminal = []string{"accepted", "rejected", "withdrawn"}

// canTransition reports whether an employer may move an application from one
// status to another.
func canTransition(from, to string) bool {
	return slices.Contains(applicationTransitions[from], to)
}

// CreateApplication submits the caller against an open job post. Identity
// verification is required before applying, and a seeker gets one
// application per post.
func CreateApplication(ctx iris.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if user.IsVerified == nil || !*user.IsVerified {
		utils.JSONError(ctx, iris.StatusForbidden, "verification_required", "Verify your identity before applying to jobs.")
		return
	}

	var input ApplicationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var post models.JobPost
	if err := storage.DB.First(&post, input.JobPostID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if post.Status != "open" {
		utils.JSONError(ctx, iris.StatusConflict, "post_closed", "This job post is no longer accepting applications.")
		return
	}
	if post.EmployerID == user.ID {
		utils.JSONError(ctx, iris.StatusForbidden, "own_post", "You cannot apply to your own job post.")
		return
	}

	var existing models.Application
	dup := storage.DB.Where("job_post_id = ? AND seeker_id = ?", post.ID, user.ID).
		Limit(1).Find(&existing)
	if dup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if dup.RowsAffected > 0 {
		utils.JSONError(ctx, iris.StatusConflict, "already_applied", "You already applied to this job post.")
		return
	}

	application := models.Application{
		JobPostID:   post.ID,
		SeekerID:    user.ID,
		CoverLetter: input.CoverLetter,
		ResumeURL:   input.ResumeURL,
		Status:      "submitted",
	}
	if err := storage.DB.Create(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&application)
}

// ListMyApplications returns the seeker's applications, newest first.
func ListMyApplications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var applications []models.Application
	if err := storage.DB.Where("seeker_id = ?", userID).
		Order("created_at DESC").Find(&applications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"applications": applications})
}

// ListApplicationsForPost lets the post's employer review the inbox.
func ListApplicationsForPost(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	postID := ctx.Params().Get("id")

	var post models.JobPost
	if err := storage.DB.First(&post, postID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if post.EmployerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	status := ctx.URLParamDefault("status", "")
	q := storage.DB.Where("job_post_id = ?", post.ID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var applications []models.Application
	if err := q.Order("created_at ASC").Find(&applications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"applications": applications})
}

// UpdateApplicationStatus moves an application along the pipeline. Only the
// owning employer may do it, only along legal edges, and the seeker gets a
// push about the change.
func UpdateApplicationStatus(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var input ApplicationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var application models.Application
	if err := storage.DB.First(&application, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var post models.JobPost
	if err := storage.DB.First(&post, application.JobPostID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if post.EmployerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if !canTransition(application.Status, input.Status) {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_transition",
			"Cannot move application from "+application.Status+" to "+input.Status+".")
		return
	}

	application.Status = input.Status
	application.Notes = input.Notes
	if slices.Contains(applicationTerminal, input.Status) {
		now := time.Now().UTC()
		application.DecidedAt = &now
	}
	if err := storage.DB.Save(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	go services.NotificationServiceInstance.SendApplicationStatusToSeeker(
		application.ID, post.ID, application.SeekerID, post.Title, application.Status)

	ctx.JSON(&application)
}

// WithdrawApplication is the seeker backing out. Allowed from any
// non-terminal status.
func WithdrawApplication(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var application models.Application
	if err := storage.DB.First(&application, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if application.SeekerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	if slices.Contains(applicationTerminal, application.Status) {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_transition",
			"Application is already "+application.Status+".")
		return
	}

	now := time.Now().UTC()
	application.Status = "withdrawn"
	application.DecidedAt = &now
	if err := storage.DB.Save(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&application)
}

type ApplicationInput struct {
	JobPostID   uint   `json:"jobPostID" validate:"required"`
	CoverLetter string `json:"coverLetter" validate:"max=20000"`
	ResumeURL   string `json:"resumeURL" validate:"omitempty,url,max=512"`
}

type ApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=in_review shortlisted offer accepted rejected"`
	Notes  string `json:"notes" validate:"max=4000"`
}
