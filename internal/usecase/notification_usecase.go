package usecase

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	orgDisplayName = "Mathare Peace Initiative"
	msgMailFailed  = "An error occurred while trying to send the message."
	msgAppFailed   = "An error occurred while submitting your application."
)

var (
	contactOrgTmpl = template.Must(template.New("contact_org").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>New Contact Form Submission</h2>
<p>You have received a new message from the Mathare Peace Initiative app.</p>
<hr>
<h3>Sender Details:</h3>
<ul>
<li><strong>Name:</strong> {{.Name}}</li>
<li><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></li>
</ul>
<h3>Message:</h3>
<p style="background-color: #f9f9f9; border: 1px solid #ddd; padding: 15px; border-radius: 5px;">{{.Message}}</p>
</div>`))

	contactUserTmpl = template.Must(template.New("contact_user").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>We've Received Your Message!</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for reaching out to Mathare Peace Initiative. We have received your message and a member of our team will get back to you as soon as possible.</p>
<p>Peace and blessings,</p>
<p><strong>The MPI Kenya Team</strong></p>
<hr>
<p style="font-size: 0.8em; color: #777;">This is an automated response. For urgent matters, please contact us directly.</p>
</div>`))

	volunteerOrgTmpl = template.Must(template.New("volunteer_org").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>New Volunteer Application Received</h2>
<hr>
<h3>Applicant Details:</h3>
<ul>
<li><strong>Full Name:</strong> {{.FullName}}</li>
<li><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></li>
<li><strong>Phone:</strong> {{.Phone}}</li>
</ul>
<h3>Reason for Volunteering:</h3>
<p style="background-color: #f9f9f9; border: 1px solid #ddd; padding: 15px; border-radius: 5px;">{{.Reason}}</p>
</div>`))

	volunteerUserTmpl = template.Must(template.New("volunteer_user").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>Thank You for Your Interest, {{.FullName}}!</h2>
<p>We have successfully received your volunteer application. Your willingness to contribute to our mission at Mathare Peace Initiative is greatly appreciated.</p>
<p>Our team will review your application and will be in touch with you soon regarding the next steps.</p>
<p>Peace and blessings,</p>
<p><strong>The MPI Kenya Team</strong></p>
</div>`))
)

// NotificationUseCase relays contact and volunteer forms to the organization
// inbox and sends the submitter a confirmation.
type NotificationUseCase struct {
	mailer    contract.IEmailService
	validator usecasecontract.IValidator
	logger    usecasecontract.IAppLogger
	config    usecasecontract.IConfigProvider
}

var _ usecasecontract.INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(mailer contract.IEmailService, validator usecasecontract.IValidator, logger usecasecontract.IAppLogger, cfg usecasecontract.IConfigProvider) *NotificationUseCase {
	return &NotificationUseCase{mailer: mailer, validator: validator, logger: logger, config: cfg}
}

func (uc *NotificationUseCase) SendContactMessage(ctx context.Context, msg usecasecontract.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = normalizeEmail(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return entity.NewValidationError("Name, email, and message fields are required.")
	}
	if err := uc.validator.ValidateEmail(msg.Email); err != nil {
		return entity.NewValidationError("Please provide a valid email address.")
	}

	toOrg, err := render(contactOrgTmpl, msg)
	if err != nil {
		return entity.NewUpstreamError(msgMailFailed, err)
	}
	toUser, err := render(contactUserTmpl, msg)
	if err != nil {
		return entity.NewUpstreamError(msgMailFailed, err)
	}

	err = uc.sendPair(ctx,
		entity.EmailMessage{
			To:       uc.config.GetOrgNotificationEmail(),
			ReplyTo:  msg.Email,
			FromName: "MPI App Contact Form",
			Subject:  "New Message from " + msg.Name,
			HTMLBody: toOrg,
		},
		entity.EmailMessage{
			To:       msg.Email,
			FromName: orgDisplayName,
			Subject:  "Thank You for Contacting Us!",
			HTMLBody: toUser,
		},
	)
	if err != nil {
		uc.logger.Errorf("failed to send contact emails: %v", err)
		return entity.NewUpstreamError(msgMailFailed, err)
	}
	uc.logger.Infof("contact message relayed")
	return nil
}

func (uc *NotificationUseCase) SubmitVolunteerApplication(ctx context.Context, app usecasecontract.VolunteerApplication) error {
	app.FullName = strings.TrimSpace(app.FullName)
	app.Email = normalizeEmail(app.Email)
	app.Phone = strings.TrimSpace(app.Phone)
	app.Reason = strings.TrimSpace(app.Reason)
	if app.FullName == "" || app.Email == "" || app.Phone == "" || app.Reason == "" {
		return entity.NewValidationError("All fields are required for the application.")
	}
	if err := uc.validator.ValidateEmail(app.Email); err != nil {
		return entity.NewValidationError("Please provide a valid email address.")
	}

	toOrg, err := render(volunteerOrgTmpl, app)
	if err != nil {
		return entity.NewUpstreamError(msgAppFailed, err)
	}
	toUser, err := render(volunteerUserTmpl, app)
	if err != nil {
		return entity.NewUpstreamError(msgAppFailed, err)
	}

	err = uc.sendPair(ctx,
		entity.EmailMessage{
			To:       uc.config.GetOrgNotificationEmail(),
			ReplyTo:  app.Email,
			FromName: "MPI Volunteer Application",
			Subject:  "New Volunteer Application: " + app.FullName,
			HTMLBody: toOrg,
		},
		entity.EmailMessage{
			To:       app.Email,
			FromName: orgDisplayName,
			Subject:  "We've Received Your Volunteer Application!",
			HTMLBody: toUser,
		},
	)
	if err != nil {
		uc.logger.Errorf("failed to send volunteer emails: %v", err)
		return entity.NewUpstreamError(msgAppFailed, err)
	}
	return nil
}

// sendPair sends both messages concurrently and fails if either fails.
func (uc *NotificationUseCase) sendPair(ctx context.Context, a, b entity.EmailMessage) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return uc.mailer.SendEmail(gctx, a) })
	g.Go(func() error { return uc.mailer.SendEmail(gctx, b) })
	return g.Wait()
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
