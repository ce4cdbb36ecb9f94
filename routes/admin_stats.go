package routes

import (
	"jobmarket-server/models"
	"jobmarket-server/storage"

	"github.com/kataras/iris/v12"
)

// AdminStats: GET /admin/stats — headline numbers for the dashboard
func AdminStats(ctx iris.Context) {
	var users int64
	storage.DB.Model(&models.User{}).Count(&users)

	var verifiedUsers int64
	storage.DB.Model(&models.User{}).Where("is_verified = ?", true).Count(&verifiedUsers)

	var pendingVerifications int64
	storage.DB.Model(&models.VerificationRequest{}).Where("status = ?", "pending").Count(&pendingVerifications)

	var openJobPosts int64
	storage.DB.Model(&models.JobPost{}).Where("status = ?", "open").Count(&openJobPosts)

	var applications int64
	storage.DB.Model(&models.Application{}).Count(&applications)

	var capturedPayments int64
	storage.DB.Model(&models.Payment{}).Where("status = ?", "captured").Count(&capturedPayments)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"users":                 users,
			"verified_users":        verifiedUsers,
			"pending_verifications": pendingVerifications,
			"open_job_posts":        openJobPosts,
			"applications":          applications,
			"captured_payments":     capturedPayments,
		},
	})
}
