package services

import (
	"encoding/json"
	"fmt"
	"log"

	"jobmarket-server/models"
	"jobmarket-server/storage"
	"jobmarket-server/utils"
)

// NotificationService handles all push notification logic
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData is the data payload attached to a push so the app can
// deep-link to the right screen.
type NotificationData struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	JobPostID string `json:"jobPostId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Screen    string `json:"screen"`
	Params    string `json:"params,omitempty"`
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}
	return tokens, nil
}

// SendNotificationToUser sends a notification to a specific user
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	dataMap := map[string]string{
		"type":      data.Type,
		"id":        data.ID,
		"jobPostId": data.JobPostID,
		"userId":    data.UserID,
		"screen":    data.Screen,
		"params":    data.Params,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendVerificationDecision tells the user how their identity review went.
// Satisfies the verification service's DecisionNotifier.
func (ns *NotificationService) SendVerificationDecision(userID uint, status, notes string) {
	var title, body string
	switch status {
	case VerificationApproved:
		title = "✅ Identity Verified!"
		body = "Your identity document was approved. You now have full access."
	case VerificationRejected:
		title = "❌ Verification Rejected"
		body = "Your identity document was rejected. You can upload a new document and try again."
		if notes != "" {
			body = fmt.Sprintf("Your identity document was rejected: %s. You can upload a new document and try again.", notes)
		}
	default:
		title = "🔍 Verification Update"
		body = fmt.Sprintf("Your identity verification status changed to %s.", status)
	}

	data := NotificationData{
		Type:   "verification_" + status,
		UserID: fmt.Sprintf("%d", userID),
		Screen: "VerificationStatus",
	}

	if err := ns.SendNotificationToUser(userID, title, body, data); err != nil {
		log.Printf("❌ NOTIFICATION ERROR: verification decision push to user %d: %v", userID, err)
	}
}

// SendApplicationStatusToSeeker notifies a candidate that an employer moved
// their application through the pipeline.
func (ns *NotificationService) SendApplicationStatusToSeeker(applicationID, jobPostID, seekerID uint, jobTitle, status string) error {
	var title, body string
	switch status {
	case "shortlisted":
		title = "⭐ You've Been Shortlisted!"
		body = fmt.Sprintf("You were shortlisted for %s.", jobTitle)
	case "offer":
		title = "🎉 You Got an Offer!"
		body = fmt.Sprintf("You received an offer for %s.", jobTitle)
	case "accepted":
		title = "🎉 Offer Confirmed"
		body = fmt.Sprintf("Your acceptance for %s is confirmed.", jobTitle)
	case "rejected":
		title = "Application Update"
		body = fmt.Sprintf("Your application for %s was not selected this time.", jobTitle)
	default:
		title = "Application Update"
		body = fmt.Sprintf("Your application for %s moved to %s.", jobTitle, status)
	}

	params := fmt.Sprintf(`{"applicationId": %d, "jobPostId": %d}`, applicationID, jobPostID)
	data := NotificationData{
		Type:      "application_status_changed",
		ID:        fmt.Sprintf("%d", applicationID),
		JobPostID: fmt.Sprintf("%d", jobPostID),
		Screen:    "MyApplications",
		Params:    params,
	}

	return ns.SendNotificationToUser(seekerID, title, body, data)
}

// SendMessageNotificationToReceiver notifies the other side of a conversation.
func (ns *NotificationService) SendMessageNotificationToReceiver(receiverID, senderID uint, senderName, jobTitle string) error {
	title := "💬 New Message"
	body := fmt.Sprintf("%s sent you a message about %s", senderName, jobTitle)

	params := fmt.Sprintf(`{"senderId": %d, "senderName": "%s"}`, senderID, senderName)
	data := NotificationData{
		Type:   "message_received",
		UserID: fmt.Sprintf("%d", senderID),
		Screen: "Messages",
		Params: params,
	}

	return ns.SendNotificationToUser(receiverID, title, body, data)
}

// SendPaymentNotificationToCandidate notifies a candidate about a payout.
func (ns *NotificationService) SendPaymentNotificationToCandidate(paymentID, candidateID uint, amountCents int64, currency string) error {
	title := "💰 Payment Received"
	body := fmt.Sprintf("You received a payment of %.2f %s.", float64(amountCents)/100, currency)

	data := NotificationData{
		Type:   "payment_captured",
		ID:     fmt.Sprintf("%d", paymentID),
		Screen: "Payments",
	}

	return ns.SendNotificationToUser(candidateID, title, body, data)
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()
