package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course. Authoring happens through the creator
// endpoints; the enrollment/progress workflow treats a course as read-only.
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	OwnerAddress string  `json:"owner_address" gorm:"index;not null"` // creator wallet, receives enrollment payments
	Price        uint    `json:"price" gorm:"default:0"`              // ledger-native units, 0 = free
	Status       string  `json:"status" gorm:"default:'DRAFT'"`       // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string  `json:"thumbnail_url"`
	RatingAvg    float64 `json:"rating_avg" gorm:"default:0"`
	RatingCount  uint    `json:"rating_count" gorm:"default:0"`
	StudentCount uint    `json:"student_count" gorm:"default:0"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`

	// NFT certificate metadata, used verbatim in the mint payload
	CertificateTitle       string         `json:"certificate_title" gorm:"default:''"`
	CertificateIssuer      string         `json:"certificate_issuer" gorm:"default:''"`
	CertificateDescription string         `json:"certificate_description" gorm:"type:text;default:''"`
	CertificateAttributes  datatypes.JSON `json:"certificate_attributes"` // trait name -> value

	IsDeleted bool `gorm:"default:false"`
}
