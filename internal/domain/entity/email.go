package entity

// EmailMessage is a transactional email handed to the mail service.
type EmailMessage struct {
	To       string
	ReplyTo  string
	FromName string
	Subject  string
	HTMLBody string
}
