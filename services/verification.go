package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"jobmarket-server/models"

	"github.com/google/uuid"
)

// Verification statuses, shared by VerificationRequest rows and events.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// ErrReviewPending means the user already has a request in the moderation
// queue. The client shows this as "already under review".
var ErrReviewPending = errors.New("an identity verification is already under review")

// ErrNotPending means a moderator tried to decide a request that is no longer
// pending (double click, second moderator, stale tab).
var ErrNotPending = errors.New("verification request is not pending")

// ErrUnreadableDocument wraps extraction failures so callers can tell a bad
// upload apart from a persistence outage.
var ErrUnreadableDocument = errors.New("document could not be read")

// VerificationRequestStore persists manual-review records. PendingRequest
// returns (nil, nil) when the user has none.
type VerificationRequestStore interface {
	PendingRequest(userID uint) (*models.VerificationRequest, error)
	GetRequest(id uint) (*models.VerificationRequest, error)
	CreateRequest(req *models.VerificationRequest) error
	UpdateRequest(req *models.VerificationRequest) error
}

// ProfileStore reads and flips the verification flag on user rows.
type ProfileStore interface {
	FullName(userID uint) (string, error)
	// MarkVerified sets is_verified and the verification date. documentID is
	// recorded only when non-empty (the automatic path has one, a moderator
	// approval does not).
	MarkVerified(userID uint, when time.Time, documentID string) error
}

// DocumentStore is the durable home for documents sent to manual review.
type DocumentStore interface {
	Upload(ctx context.Context, key string, blob []byte, contentType string) error
}

// VerificationService runs the document pipeline and owns every verification
// state transition. Dependencies are injected rather than read from package
// globals so the pipeline can be exercised without postgres or a bucket.
type VerificationService struct {
	requests  VerificationRequestStore
	profiles  ProfileStore
	documents DocumentStore
	events    EventPublisher
	notify    DecisionNotifier
}

// DecisionNotifier pushes reviewer decisions to the requester's devices.
// Distinct from EventPublisher: events feed the open session, notifications
// chase the user when no session is open.
type DecisionNotifier interface {
	SendVerificationDecision(userID uint, status, notes string)
}

func NewVerificationService(
	requests VerificationRequestStore,
	profiles ProfileStore,
	documents DocumentStore,
	events EventPublisher,
	notify DecisionNotifier,
) *VerificationService {
	return &VerificationService{
		requests:  requests,
		profiles:  profiles,
		documents: documents,
		events:    events,
		notify:    notify,
	}
}

// CheckDocument runs extraction, field matching and validation on an uploaded
// document. On a clean pass with a matching name the user is verified on the
// spot; otherwise the verdict comes back with the full list of reasons and the
// client may offer manual review.
//
// Extraction failures are returned as errors; the pipeline never proceeds to
// matching on a document it could not read.
func (s *VerificationService) CheckDocument(ctx context.Context, userID uint, blob []byte, progress func(page, total int)) (*ValidationVerdict, error) {
	content, err := ExtractDocumentText(blob, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	fields := MatchFields(content.FullText())

	name, err := s.profiles.FullName(userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile name: %w", err)
	}

	verdict := ValidateDocument(fields, name)

	if verdict.Valid && verdict.NameMatch {
		now := time.Now().UTC()
		if err := s.profiles.MarkVerified(userID, now, fields.Identifier); err != nil {
			return nil, fmt.Errorf("marking user verified: %w", err)
		}
		s.events.Publish(VerificationEvent{
			UserID: userID,
			Status: VerificationApproved,
			At:     now,
		})
	}

	return &verdict, nil
}

// SubmitForReview stores the document durably and opens a pending
// manual-review request. The upload strictly precedes the insert so a request
// row can never reference a document that isn't there.
func (s *VerificationService) SubmitForReview(ctx context.Context, userID uint, blob []byte, contentType string) (*models.VerificationRequest, error) {
	pending, err := s.requests.PendingRequest(userID)
	if err != nil {
		return nil, fmt.Errorf("checking pending requests: %w", err)
	}
	if pending != nil {
		return nil, ErrReviewPending
	}

	key := fmt.Sprintf("verification/%d/%s.pdf", userID, uuid.NewString())
	if err := s.documents.Upload(ctx, key, blob, contentType); err != nil {
		return nil, fmt.Errorf("storing verification document: %w", err)
	}

	req := &models.VerificationRequest{
		UserID:       userID,
		DocumentKind: DocumentKindNationalID,
		DocumentKey:  key,
		Status:       VerificationPending,
	}
	if err := s.requests.CreateRequest(req); err != nil {
		// The upload already succeeded; the object is now orphaned and needs
		// out-of-band cleanup. Logged with the key so it can be found.
		log.Printf("❌ VERIFICATION ERROR: orphaned verification document %s for user %d: %v", key, userID, err)
		return nil, fmt.Errorf("recording verification request (stored document %s retained): %w", key, err)
	}

	s.events.Publish(VerificationEvent{
		UserID:    userID,
		RequestID: req.ID,
		Status:    VerificationPending,
		At:        time.Now().UTC(),
	})
	return req, nil
}

// Approve is the moderator's yes: the request flips to approved and the user
// becomes verified.
func (s *VerificationService) Approve(requestID, reviewerID uint, notes string) (*models.VerificationRequest, error) {
	req, err := s.requests.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != VerificationPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	req.Status = VerificationApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.Notes = notes
	if err := s.requests.UpdateRequest(req); err != nil {
		return nil, fmt.Errorf("updating verification request: %w", err)
	}
	if err := s.profiles.MarkVerified(req.UserID, now, ""); err != nil {
		return nil, fmt.Errorf("marking user verified: %w", err)
	}

	s.publishDecision(req, now)
	return req, nil
}

// Reject is the moderator's no. The user's verification flag is left alone —
// it was never true — and they may submit a fresh document afterwards.
func (s *VerificationService) Reject(requestID, reviewerID uint, notes string) (*models.VerificationRequest, error) {
	req, err := s.requests.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != VerificationPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	req.Status = VerificationRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.Notes = notes
	if err := s.requests.UpdateRequest(req); err != nil {
		return nil, fmt.Errorf("updating verification request: %w", err)
	}

	s.publishDecision(req, now)
	return req, nil
}

func (s *VerificationService) publishDecision(req *models.VerificationRequest, at time.Time) {
	s.events.Publish(VerificationEvent{
		UserID:    req.UserID,
		RequestID: req.ID,
		Status:    req.Status,
		Notes:     req.Notes,
		At:        at,
	})
	if s.notify != nil {
		s.notify.SendVerificationDecision(req.UserID, req.Status, req.Notes)
	}
}
