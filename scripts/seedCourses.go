package main

import (
	"chainlearn/config"
	"chainlearn/database"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"encoding/json"
	"log"
	"os"

	"gorm.io/datatypes"
)

type seedQuiz struct {
	PassingScore int                         `json:"passing_score"`
	Questions    []courseModels.QuizQuestion `json:"questions"`
}

type seedModule struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
	TextContent string    `json:"text_content"`
	VideoURL    string    `json:"video_url"`
	ImageURL    string    `json:"image_url"`
	Duration    string    `json:"duration"`
	Quiz        *seedQuiz `json:"quiz"`
}

type seedCourse struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	OwnerAddress      string            `json:"owner_address"`
	Price             uint              `json:"price"`
	ThumbnailURL      string            `json:"thumbnail_url"`
	CertificateTitle  string            `json:"certificate_title"`
	CertificateIssuer string            `json:"certificate_issuer"`
	Attributes        map[string]string `json:"certificate_attributes"`
	Modules           []seedModule      `json:"modules"`
}

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	catalogPath := "courses.json"
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}

	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		log.Fatalf("Failed to open catalog file: %v", err)
	}

	var catalog []seedCourse
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Fatalf("Failed to parse catalog: %v", err)
	}

	log.Printf("Total courses to import: %d", len(catalog))

	inserted := 0
	skipped := 0

	db := database.Database.Db
	for _, entry := range catalog {
		owner := models.NormalizeAddress(entry.OwnerAddress)

		// Skip courses already seeded
		var existing courseModels.Course
		if err := db.Where("title = ? AND owner_address = ?", entry.Title, owner).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		attributes, _ := json.Marshal(entry.Attributes)
		course := courseModels.Course{
			Title:                 entry.Title,
			Description:           entry.Description,
			OwnerAddress:          owner,
			Price:                 entry.Price,
			Status:                "ACTIVE",
			ThumbnailURL:          entry.ThumbnailURL,
			IsPublished:           true,
			CertificateTitle:      entry.CertificateTitle,
			CertificateIssuer:     entry.CertificateIssuer,
			CertificateAttributes: datatypes.JSON(attributes),
		}
		if err := db.Create(&course).Error; err != nil {
			log.Printf("Failed to insert course %q: %v", entry.Title, err)
			continue
		}

		// Make sure the owner exists and is flagged as a creator
		var user models.User
		if err := db.Where("wallet_address = ?", owner).First(&user).Error; err != nil {
			db.Create(&models.User{WalletAddress: owner, IsCreator: true})
		} else if !user.IsCreator {
			db.Model(&user).Update("is_creator", true)
		}

		for i, m := range entry.Modules {
			module := courseModels.Module{
				CourseID:    course.ID,
				Title:       m.Title,
				Description: m.Description,
				ContentType: m.ContentType,
				TextContent: m.TextContent,
				VideoURL:    m.VideoURL,
				ImageURL:    m.ImageURL,
				Duration:    m.Duration,
				OrderIndex:  i,
			}
			if err := db.Create(&module).Error; err != nil {
				log.Printf("Failed to insert module %q: %v", m.Title, err)
				continue
			}

			if m.Quiz != nil && len(m.Quiz.Questions) > 0 {
				questions, _ := json.Marshal(m.Quiz.Questions)
				passing := m.Quiz.PassingScore
				if passing == 0 {
					passing = 70
				}
				quiz := courseModels.Quiz{
					ModuleID:     module.ID,
					PassingScore: passing,
					Questions:    datatypes.JSON(questions),
				}
				if err := db.Create(&quiz).Error; err != nil {
					log.Printf("Failed to insert quiz for module %q: %v", m.Title, err)
				}
			}
		}

		inserted++
		log.Printf("Seeded course %q with %d modules", course.Title, len(entry.Modules))
	}

	log.Printf("Import complete: %d inserted, %d skipped", inserted, skipped)
}
