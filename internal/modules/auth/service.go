package auth

import (
	"errors"
	"time"

	"github.com/geojournal/core/internal/models"
	jwtpkg "github.com/geojournal/core/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

const tokenTTL = 14 * 24 * time.Hour

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// EnsureOwner creates the owner account from configuration on first start.
// An existing account is left untouched; passwords change through the API,
// not the config file.
func (s *Service) EnsureOwner(username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := models.UserModel{Username: username, Name: username, Password: string(hash)}
	if err := s.db.Create(&u).Error; err != nil {
		return err
	}
	s.log.Info("owner account created", zap.String("username", username))
	return nil
}

// Login verifies the credentials and returns a signed token. Failed
// attempts are delayed to slow down guessing.
func (s *Service) Login(username, password, ip string) (string, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})

	return jwtpkg.Sign(u.ID, tokenTTL)
}

// Profile returns the owner account by id, or (nil, nil) when absent.
func (s *Service) Profile(userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
