package routes

import (
	"errors"
	"net/http"
	"time"

	"jobmarket-server/models"
	"jobmarket-server/services"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
)

// signedURLTTL is how long a moderator's link to a stored document stays
// valid. Documents are sensitive; keep this short.
const signedURLTTL = 10 * time.Minute

// AdminListVerificationRequests returns the review queue, oldest first so the
// queue drains fairly. Each entry carries a short-lived signed URL for the
// stored document.
func AdminListVerificationRequests(ctx iris.Context) {
	status := ctx.URLParamDefault("status", services.VerificationPending)
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.VerificationRequest{}).Where("status = ?", status)

	var total int64
	q.Count(&total)

	var requests []models.VerificationRequest
	if err := q.Order("created_at ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	type queueEntry struct {
		models.VerificationRequest
		DocumentURL string `json:"documentURL,omitempty"`
	}
	entries := make([]queueEntry, 0, len(requests))
	for _, req := range requests {
		entry := queueEntry{VerificationRequest: req}
		if url, err := storage.Objects.SignedURL(ctx.Request().Context(), req.DocumentKey, signedURLTTL); err == nil {
			entry.DocumentURL = url
		}
		entries = append(entries, entry)
	}

	utils.JSONPage(ctx, entries, page, perPage, total)
}

// AdminApproveVerification approves a pending request: the requester becomes
// verified and their open session hears about it immediately.
func AdminApproveVerification(ctx iris.Context) {
	decideVerification(ctx, true)
}

// AdminRejectVerification rejects a pending request; the requester stays
// unverified and may submit a fresh document.
func AdminRejectVerification(ctx iris.Context) {
	decideVerification(ctx, false)
}

func decideVerification(ctx iris.Context, approve bool) {
	reviewerID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "request id must be numeric")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	ctx.ReadJSON(&body) // notes are optional; an empty body is fine

	var before models.VerificationRequest
	if err := storage.DB.First(&before, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var req *models.VerificationRequest
	if approve {
		req, err = verificationService.Approve(id, reviewerID, body.Notes)
	} else {
		req, err = verificationService.Reject(id, reviewerID, body.Notes)
	}
	if err != nil {
		if errors.Is(err, services.ErrNotPending) {
			utils.JSONError(ctx, iris.StatusConflict, "not_pending", "This request was already decided.")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	action := "verification.reject"
	if approve {
		action = "verification.approve"
	}
	utils.Audit(ctx, action, "verification_request", req.ID, before, req)

	ctx.JSON(iris.Map{"data": req})
}
