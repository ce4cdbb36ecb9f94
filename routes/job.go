package routes

import (
	"encoding/json"

	"jobmarket-server/models"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

var employmentTypes = []string{"full_time", "part_time", "contract", "internship"}

// CreateJobPost opens a new post. Only verified employers may publish; an
// unverified account gets pointed at the verification flow instead.
func CreateJobPost(ctx iris.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if user.Role != "employer" {
		utils.JSONError(ctx, iris.StatusForbidden, "employer_required", "Only employer accounts can post jobs.")
		return
	}
	if user.IsVerified == nil || !*user.IsVerified {
		utils.JSONError(ctx, iris.StatusForbidden, "verification_required", "Verify your identity before posting jobs.")
		return
	}

	var input JobPostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post := models.JobPost{
		EmployerID:     user.ID,
		Title:          input.Title,
		Company:        input.Company,
		Description:    input.Description,
		Location:       input.Location,
		Remote:         input.Remote,
		EmploymentType: input.EmploymentType,
		SalaryMin:      input.SalaryMin,
		SalaryMax:      input.SalaryMax,
		Currency:       input.Currency,
		Status:         "open",
	}
	if input.Skills != nil {
		if b, err := json.Marshal(input.Skills); err == nil {
			post.Skills = datatypes.JSON(b)
		}
	}

	if err := storage.DB.Create(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&post)
}

func GetJobPost(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var post models.JobPost
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(&post)
}

// SearchJobPosts is the public browse/search endpoint: free-text over title,
// company and description plus structured filters, paginated.
func SearchJobPosts(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.JobPost{}).Where("status = ?", "open")

	if text := ctx.URLParamDefault("q", ""); text != "" {
		search := "%" + text + "%"
		q = q.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ?", search, search, search)
	}
	if location := ctx.URLParamDefault("location", ""); location != "" {
		q = q.Where("location ILIKE ?", "%"+location+"%")
	}
	if ctx.URLParamDefault("remote", "") == "true" {
		q = q.Where("remote = ?", true)
	}
	if et := ctx.URLParamDefault("employment_type", ""); et != "" && slices.Contains(employmentTypes, et) {
		q = q.Where("employment_type = ?", et)
	}
	if salaryMin, err := ctx.URLParamInt("salary_min"); err == nil && salaryMin > 0 {
		q = q.Where("salary_max >= ?", salaryMin)
	}

	var total int64
	q.Count(&total)

	var posts []models.JobPost
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, posts, page, perPage, total)
}

// ListMyJobPosts lists the employer's own posts, open and closed.
func ListMyJobPosts(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var posts []models.JobPost
	if err := storage.DB.Where("employer_id = ?", userID).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"jobPosts": posts})
}

func UpdateJobPost(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var post models.JobPost
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if post.EmployerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input JobPostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post.Title = input.Title
	post.Company = input.Company
	post.Description = input.Description
	post.Location = input.Location
	post.Remote = input.Remote
	post.EmploymentType = input.EmploymentType
	post.SalaryMin = input.SalaryMin
	post.SalaryMax = input.SalaryMax
	post.Currency = input.Currency
	if input.Skills != nil {
		if b, err := json.Marshal(input.Skills); err == nil {
			post.Skills = datatypes.JSON(b)
		}
	}

	if err := storage.DB.Save(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&post)
}

// CloseJobPost takes a post off the market. Existing applications stay.
func CloseJobPost(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var post models.JobPost
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if post.EmployerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	post.Status = "closed"
	if err := storage.DB.Save(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&post)
}

type JobPostInput struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Company        string   `json:"company" validate:"max=256"`
	Description    string   `json:"description" validate:"required,max=20000"`
	Location       string   `json:"location" validate:"max=256"`
	Remote         bool     `json:"remote"`
	EmploymentType string   `json:"employmentType" validate:"required,oneof=full_time part_time contract internship"`
	SalaryMin      int      `json:"salaryMin" validate:"min=0"`
	SalaryMax      int      `json:"salaryMax" validate:"min=0,gtefield=SalaryMin"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
	Skills         []string `json:"skills" validate:"omitempty,max=50,dive,max=64"`
}
