package routes

import (
	"net/http"

	"jobmarket-server/models"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers: GET /admin/users?q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.User{})
	if search := ctx.URLParamDefault("q", ""); search != "" {
		like := "%" + search + "%"
		q = q.Where("lower(first_name) LIKE lower(?) OR lower(last_name) LIKE lower(?) OR lower(email) LIKE lower(?)",
			like, like, like)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminGetUser: GET /admin/users/:id — full user info + verification history
func AdminGetUser(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var history []models.VerificationRequest
	storage.DB.Where("user_id = ?", id).Order("created_at DESC").Find(&history)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":          user,
			"verifications": history,
		},
	})
}

// AdminChangeUserRole: PATCH /admin/users/:id/role { role } — super_admin only
func AdminChangeUserRole(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Role != "user" && body.Role != "employer" && body.Role != "admin" && body.Role != "super_admin") {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "role must be user/employer/admin/super_admin")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_change", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}
