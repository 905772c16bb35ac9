package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	WalletAddress string         `json:"wallet_address" gorm:"uniqueIndex;not null"` // lowercase hex address
	Name          string         `json:"name" gorm:"default:''"`
	Email         string         `json:"email" gorm:"default:''"` // optional, for notifications only
	AvatarURL     string         `json:"avatar_url" gorm:"default:''"`
	IsCreator     bool           `json:"is_creator" gorm:"default:false"`
	Specialties   datatypes.JSON `json:"specialties"` // string array
	Experience    string         `json:"experience" gorm:"type:text;default:''"`
	IsDeleted     bool           `gorm:"default:false"`
}

// NormalizeAddress lowercases and trims a wallet address so the same wallet
// always maps to the same user row.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
