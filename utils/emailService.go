package utils

import (
	"chainlearn/config"
	"chainlearn/models"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Println("SENDGRID_API_KEY not set, skipping email to", to)
		return nil
	}

	from := mail.NewEmail("ChainLearn", config.AppConfig.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Println("Email rejected, status:", response.StatusCode)
		return fmt.Errorf("email rejected, status: %d", response.StatusCode)
	}
	return nil
}

func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A2E; line-height: 1.6; }
			.content h2 { color: #1A1A2E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #6C5CE7; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>CHAINLEARN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 ChainLearn. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Enrollment Receipt
func SendEnrollmentReceiptEmail(user models.User, courseTitle, txHash string, amount uint) error {
	if user.Email == "" {
		return nil
	}

	name := user.Name
	if name == "" {
		name = user.WalletAddress
	}

	subject := "Enrollment Confirmed: " + courseTitle
	paymentLine := "<p>This course is free, no payment was taken.</p>"
	if amount > 0 {
		paymentLine = fmt.Sprintf(`
		<div class="info-box">
			<strong>Payment:</strong> %d tokens<br>
			<strong>Transaction:</strong> %s
		</div>`, amount, txHash)
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		%s
		<p>Complete every module to earn your on-chain certificate.</p>
	`, name, courseTitle, paymentLine)

	return SendEmail(user.Email, subject, getEmailTemplate("Enrollment Successful", body))
}

// 2. Certificate Issued
func SendCertificateIssuedEmail(user models.User, courseTitle, tokenID string) error {
	if user.Email == "" {
		return nil
	}

	name := user.Name
	if name == "" {
		name = user.WalletAddress
	}

	subject := "Certificate Minted: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">
			<strong>Certificate Token:</strong> %s
		</div>
		<p>The certificate NFT now lives in your wallet. You can verify it on any explorer.</p>
	`, name, courseTitle, tokenID)

	return SendEmail(user.Email, subject, getEmailTemplate("Certificate of Completion", body))
}

// 3. Enrollment Recovered (after a pending payment was reconciled)
func SendEnrollmentRecoveredEmail(user models.User, courseTitle string) error {
	if user.Email == "" {
		return nil
	}

	name := user.Name
	if name == "" {
		name = user.WalletAddress
	}

	subject := "Enrollment Restored: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment for <strong>%s</strong> was confirmed on-chain but the enrollment
		did not complete at the time. It has now been restored.</p>
		<p>You have full access to the course, no further action is needed.</p>
	`, name, courseTitle)

	return SendEmail(user.Email, subject, getEmailTemplate("Enrollment Restored", body))
}
