package services

import (
	"errors"
	"time"

	"jobmarket-server/models"

	"gorm.io/gorm"
)

// GormVerificationStore backs VerificationRequestStore and ProfileStore with
// postgres. The partial unique index on (user_id) WHERE status='pending'
// (see storage migrations) is the real enforcer of the one-pending-request
// invariant; the PendingRequest pre-check only exists for a friendly error.
type GormVerificationStore struct {
	db *gorm.DB
}

func NewGormVerificationStore(db *gorm.DB) *GormVerificationStore {
	return &GormVerificationStore{db: db}
}

func (s *GormVerificationStore) PendingRequest(userID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := s.db.Where("user_id = ? AND status = ?", userID, VerificationPending).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormVerificationStore) GetRequest(id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := s.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormVerificationStore) CreateRequest(req *models.VerificationRequest) error {
	return s.db.Create(req).Error
}

func (s *GormVerificationStore) UpdateRequest(req *models.VerificationRequest) error {
	return s.db.Save(req).Error
}

func (s *GormVerificationStore) FullName(userID uint) (string, error) {
	var user models.User
	if err := s.db.Select("id, first_name, last_name").First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.FullName(), nil
}

func (s *GormVerificationStore) MarkVerified(userID uint, when time.Time, documentID string) error {
	updates := map[string]interface{}{
		"is_verified":       true,
		"verification_date": when,
	}
	if documentID != "" {
		updates["verification_document"] = documentID
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}
