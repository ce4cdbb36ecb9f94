package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"jobmarket-server/models"
	"jobmarket-server/services"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// maxDocumentBytes caps uploaded verification documents (multipart form).
const maxDocumentBytes = 10 << 20

var (
	verificationService *services.VerificationService
	verificationHub     *services.Hub
)

// InitVerification wires the verification service and event hub into the
// handlers. Called once from main before routes are registered.
func InitVerification(svc *services.VerificationService, hub *services.Hub) {
	verificationService = svc
	verificationHub = hub
}

// readDocumentUpload pulls the "document" file out of the multipart form.
func readDocumentUpload(ctx iris.Context) ([]byte, string, bool) {
	ctx.SetMaxRequestBodySize(maxDocumentBytes)

	file, header, err := ctx.FormFile("document")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "missing_document", "Attach the document as multipart field 'document'.")
		return nil, "", false
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil || len(blob) == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "missing_document", "Uploaded document is empty or unreadable.")
		return nil, "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return blob, contentType, true
}

// CheckVerificationDocument runs the automatic pipeline on an uploaded
// document. A clean pass verifies the user immediately; otherwise the full
// verdict (with every failed reason) comes back and the client may offer
// manual review. A failed verdict is a business outcome, not an error: 200.
func CheckVerificationDocument(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	blob, _, ok := readDocumentUpload(ctx)
	if !ok {
		return
	}

	// Page progress goes to the user's live event stream so the client can
	// show "page 2 of 5" while a long extraction runs. Best-effort.
	progress := func(page, total int) {
		verificationHub.Publish(services.VerificationEvent{
			UserID: userID,
			Status: "processing",
			Notes:  fmt.Sprintf("page %d of %d", page, total),
		})
	}

	verdict, err := verificationService.CheckDocument(ctx.Request().Context(), userID, blob, progress)
	if err != nil {
		log.Printf("❌ VERIFICATION ERROR: document check for user %d: %v", userID, err)
		if errors.Is(err, services.ErrUnreadableDocument) {
			utils.JSONError(ctx, iris.StatusUnprocessableEntity, "unreadable_document",
				"The document could not be read. Upload a text-based PDF of your identity document.")
			return
		}
		// Profile load or flag update failed; the document itself may be fine.
		utils.JSONError(ctx, iris.StatusInternalServerError, "storage_error",
			"We could not check your document right now. Please try again.")
		return
	}

	ctx.JSON(iris.Map{
		"verdict":  verdict,
		"verified": verdict.Valid && verdict.NameMatch,
	})
}

// SubmitVerificationRequest sends a document to the human review queue after
// the automatic check failed. Requester-initiated only.
func SubmitVerificationRequest(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	blob, contentType, ok := readDocumentUpload(ctx)
	if !ok {
		return
	}

	req, err := verificationService.SubmitForReview(ctx.Request().Context(), userID, blob, contentType)
	if err != nil {
		if errors.Is(err, services.ErrReviewPending) {
			utils.JSONError(ctx, iris.StatusConflict, "verification_pending",
				"Your identity is already under review. Wait for the decision before submitting again.")
			return
		}
		// The service already logged the orphaned-document case distinctly.
		utils.JSONError(ctx, iris.StatusBadGateway, "storage_error",
			"We could not store your document. Nothing was submitted; please try again.")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message": "Your document was submitted for review.",
		"request": req,
	})
}

// GetVerificationStatus reports the caller's verification flag and their most
// recent review request, if any.
func GetVerificationStatus(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	var latest *models.VerificationRequest
	var req models.VerificationRequest
	found := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(1).Find(&req)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected > 0 {
		latest = &req
	}

	ctx.JSON(iris.Map{
		"isVerified":       user.IsVerified != nil && *user.IsVerified,
		"verificationDate": user.VerificationDate,
		"latestRequest":    latest,
	})
}

// VerificationEvents streams the caller's verification events as SSE. The
// client reacts to approved/rejected pushes without reloading; events arrive
// in decision order.
func VerificationEvents(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	// Buffering a stream defeats it; turn compression off for this response.
	ctx.CompressWriter(false)

	flusher, ok := ctx.ResponseWriter().Flusher()
	if !ok {
		utils.JSONError(ctx, iris.StatusNotImplemented, "streaming_unsupported", "Streaming is not supported by this connection.")
		return
	}

	ctx.ContentType("text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	events, cancel := verificationHub.Subscribe(userID)
	defer cancel()
	flusher.Flush()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return
		case event, open := <-events:
			if !open {
				// Hub cut us off as a slow consumer. Ending the stream makes
				// the client reconnect and refetch status first.
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(ctx.ResponseWriter(), "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
