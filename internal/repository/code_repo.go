package repository

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
)

// CodeTTL is how long an emailed verification code stays valid.
const CodeTTL = 10 * time.Minute

// CodeRepository stores emailed verification codes, hashed with bcrypt
// so a database leak never exposes a live code.
type CodeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(database *gorm.DB) *CodeRepository {
	return &CodeRepository{db: database}
}

// Create stores a new code for the user. Older codes for the same user
// and purpose stay in place; VerifyLatest only honors the newest one.
func (r *CodeRepository) Create(ctx context.Context, userID, code string, purpose db.VerificationPurpose) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	row := db.VerificationCode{
		UserID:   userID,
		CodeHash: string(hash),
		Purpose:  purpose,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// VerifyLatest checks the supplied code against the user's newest stored
// code for the purpose. Expired or mismatched codes fail with
// InvalidArgument; consume deletes the row after a successful check.
func (r *CodeRepository) VerifyLatest(
	ctx context.Context,
	userID, code string,
	purpose db.VerificationPurpose,
	consume bool,
) error {
	var row db.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.InvalidArgument("no verification code found")
	}
	if err != nil {
		return err
	}

	if time.Since(row.CreatedAt) > CodeTTL {
		return svcErr.InvalidArgument("verification code expired")
	}
	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(code)) != nil {
		return svcErr.InvalidArgument("invalid verification code")
	}

	if consume {
		return r.db.WithContext(ctx).Delete(&row).Error
	}
	return nil
}

// PurgeExpired removes codes older than the TTL. Returns rows deleted.
func (r *CodeRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", time.Now().UTC().Add(-CodeTTL)).
		Delete(&db.VerificationCode{})
	return res.RowsAffected, res.Error
}
