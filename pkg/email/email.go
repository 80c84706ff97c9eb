package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// ProformaLineData is one priced line rendered in the proforma email
type ProformaLineData struct {
	ProductName    string
	Quantity       int
	FinalUnitPrice string
	Total          string
}

// ProformaEmailData carries the rendered values for the proforma email
type ProformaEmailData struct {
	CompanyName   string
	RequestNumber string
	Date          string
	Customer      string
	Lines         []ProformaLineData
	SubTotal      string
	VATRate       int
	VATAmount     string
	Total         string
	Currency      string
}

// SendProformaEmail sends the proforma invoice to the customer
func (s *EmailService) SendProformaEmail(toEmail string, data ProformaEmailData) error {
	htmlContent, err := s.renderProformaEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Proforma Invoice %s - %s", data.RequestNumber, data.CompanyName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderProformaEmail renders the proforma invoice email template
func (s *EmailService) renderProformaEmail(data ProformaEmailData) (string, error) {
	tmpl, err := template.New("proforma").Parse(proformaTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// proformaTemplate is the HTML template for proforma invoice emails
const proformaTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Proforma Invoice</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Arial,Helvetica,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f4;padding:24px 0;">
        <tr>
            <td align="center">
                <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
                    <tr>
                        <td style="background-color:#333333;padding:24px;text-align:center;">
                            <h1 style="color:#ffffff;margin:0;font-size:20px;">{{.CompanyName}}</h1>
                            <p style="color:#cccccc;margin:8px 0 0;font-size:13px;">Proforma Invoice {{.RequestNumber}} &middot; {{.Date}}</p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding:24px;">
                            <p style="margin:0 0 16px;font-size:14px;color:#333333;">Dear {{.Customer}},</p>
                            <p style="margin:0 0 24px;font-size:14px;color:#333333;">Please find your price quotation below. This proforma invoice is for information only and is not a payment document.</p>
                            <table role="presentation" width="100%" cellpadding="8" cellspacing="0" style="border-collapse:collapse;font-size:13px;">
                                <tr style="background-color:#f0f0f0;">
                                    <th align="left" style="border-bottom:2px solid #333333;">Product</th>
                                    <th align="right" style="border-bottom:2px solid #333333;">Qty</th>
                                    <th align="right" style="border-bottom:2px solid #333333;">Unit Price</th>
                                    <th align="right" style="border-bottom:2px solid #333333;">Total</th>
                                </tr>
                                {{range .Lines}}
                                <tr>
                                    <td style="border-bottom:1px solid #e0e0e0;">{{.ProductName}}</td>
                                    <td align="right" style="border-bottom:1px solid #e0e0e0;">{{.Quantity}}</td>
                                    <td align="right" style="border-bottom:1px solid #e0e0e0;">{{.FinalUnitPrice}}</td>
                                    <td align="right" style="border-bottom:1px solid #e0e0e0;">{{.Total}}</td>
                                </tr>
                                {{end}}
                            </table>
                            <table role="presentation" width="100%" cellpadding="4" cellspacing="0" style="margin-top:16px;font-size:13px;">
                                <tr>
                                    <td align="right" style="color:#666666;">Subtotal:</td>
                                    <td align="right" width="120">{{.SubTotal}} {{.Currency}}</td>
                                </tr>
                                <tr>
                                    <td align="right" style="color:#666666;">VAT ({{.VATRate}}%):</td>
                                    <td align="right">{{.VATAmount}} {{.Currency}}</td>
                                </tr>
                                <tr>
                                    <td align="right" style="font-weight:bold;font-size:15px;">Total:</td>
                                    <td align="right" style="font-weight:bold;font-size:15px;">{{.Total}} {{.Currency}}</td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color:#f0f0f0;padding:16px 24px;text-align:center;">
                            <p style="margin:0;font-size:12px;color:#999999;">This quotation was generated by {{.CompanyName}}. Prices are valid for 30 days.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
