// internal/services/flags.go
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/models"
)

// featureEnabled reads a feature flag. Unknown flags default to enabled so a
// missing seed row never turns a surface off silently.
func featureEnabled(db *gorm.DB, key string) (bool, error) {
	var flag models.FeatureFlag
	err := db.Where("key = ?", key).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return flag.Enabled, nil
}
