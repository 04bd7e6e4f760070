package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agropricing/waitlist-api/pkg/clients/brevo"
	"github.com/agropricing/waitlist-api/pkg/config"
	"github.com/agropricing/waitlist-api/pkg/events"
	"github.com/agropricing/waitlist-api/pkg/metrics"
	"github.com/agropricing/waitlist-api/pkg/models"
	"github.com/agropricing/waitlist-api/pkg/utils"
	"github.com/agropricing/waitlist-api/pkg/validation"
)

// Contact attribute names configured in the Brevo account.
const (
	AttrFirstName        = "FIRSTNAME"
	AttrLastName         = "LASTNAME"
	AttrSMS              = "SMS"
	AttrWhatsApp         = "WHATSAPP"
	AttrSource           = "FONTE"
	AttrRegistrationDate = "DATA_INSCRICAO"
)

// WaitlistService defines the interface for handling waitlist submissions
type WaitlistService interface {
	// Subscribe registers one submission with the contact provider and
	// returns the confirmation message. Failures are *IntakeError.
	Subscribe(ctx context.Context, sub models.WaitlistSubmission) (string, error)
	ProviderConfigured() bool
}

// Dependencies groups what the waitlist service needs. Events and Now are
// optional.
type Dependencies struct {
	Brevo  brevo.Client
	Config *config.Config
	Logger *zap.SugaredLogger
	Events events.Sink
	Now    func() time.Time
}

type waitlistServiceImpl struct {
	brevoClient brevo.Client
	config      *config.Config
	log         *zap.SugaredLogger
	events      events.Sink
	now         func() time.Time
	location    *time.Location
}

// NewWaitlistService creates a new waitlist intake service
func NewWaitlistService(deps Dependencies) WaitlistService {
	s := &waitlistServiceImpl{
		brevoClient: deps.Brevo,
		config:      deps.Config,
		log:         deps.Logger,
		events:      deps.Events,
		now:         deps.Now,
		location:    time.UTC,
	}
	if s.events == nil {
		s.events = events.Nop
	}
	if s.now == nil {
		s.now = time.Now
	}
	if tz := deps.Config.Waitlist.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			s.log.Warnw("Unknown timezone, registration dates will use UTC", "timezone", tz, "error", err)
		} else {
			s.location = loc
		}
	}
	return s
}

func (s *waitlistServiceImpl) ProviderConfigured() bool {
	return s.config.Brevo.APIKey != ""
}

func (s *waitlistServiceImpl) Subscribe(ctx context.Context, sub models.WaitlistSubmission) (string, error) {
	log := s.log.With("email_fp", utils.Fingerprint(sub.Email))

	if strings.TrimSpace(sub.Name) == "" || strings.TrimSpace(sub.Email) == "" || strings.TrimSpace(sub.Phone) == "" {
		return "", badRequest(MsgFieldsRequired, nil)
	}
	if !validation.IsValidEmail(sub.Email) {
		return "", badRequest(MsgInvalidEmail, nil)
	}
	if !validation.IsValidPhone(sub.Phone) {
		return "", badRequest(MsgInvalidPhone, nil)
	}

	if !s.ProviderConfigured() || s.brevoClient == nil {
		log.Errorw("Brevo API key is not configured, rejecting submission")
		return "", serverError(MsgNotConfigured, ErrNotConfigured)
	}

	now := s.now().In(s.location)
	source := strings.TrimSpace(sub.Source)
	if source == "" {
		source = s.config.Waitlist.DefaultSource
	}

	whatsApp := validation.ToInternational(sub.Phone)
	log.Debugw("Normalized WhatsApp number", "digits", len(validation.Digits(whatsApp)))

	firstName, lastName := validation.SplitName(sub.Name)
	req := brevo.CreateContactRequest{
		Email: strings.TrimSpace(sub.Email),
		Attributes: map[string]interface{}{
			AttrFirstName:        firstName,
			AttrLastName:         lastName,
			AttrSMS:              whatsApp,
			AttrWhatsApp:         whatsApp,
			AttrSource:           source,
			AttrRegistrationDate: now.Format("2006-01-02"),
		},
		ListIDs: []int64{s.config.Brevo.ListID},
	}

	start := time.Now()
	contactID, err := s.brevoClient.CreateContact(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues("create_contact", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		intakeErr := ClassifyError(err)
		log.Errorw("Error creating Brevo contact",
			"error", err,
			"status", intakeErr.Status,
			"source", source)
		return "", intakeErr
	}

	log.Infow("Contact added to waitlist", "contact_id", contactID, "list_id", s.config.Brevo.ListID, "source", source)
	s.events.OnEvent(events.WhatsAppProvided, map[string]interface{}{"source": source})
	s.events.OnEvent(events.LeadQualified, map[string]interface{}{"source": source, "lead_quality": "waitlist"})

	if s.config.Brevo.WelcomeEnabled() {
		s.sendWelcome(ctx, log, sub, now)
	}

	return MsgSubscribed, nil
}

// sendWelcome never fails the submission; the contact already exists.
func (s *waitlistServiceImpl) sendWelcome(ctx context.Context, log *zap.SugaredLogger, sub models.WaitlistSubmission, now time.Time) {
	name := strings.TrimSpace(sub.Name)
	w := s.config.Waitlist

	req := brevo.SendEmailRequest{
		TemplateID: s.config.Brevo.WelcomeTemplateID,
		To:         []brevo.Recipient{{Email: strings.TrimSpace(sub.Email), Name: name}},
		Params: map[string]interface{}{
			"NOME":           name,
			"PRODUTO":        w.Product,
			"DESCONTO":       w.Discount,
			"PRECO_ORIGINAL": w.PriceOriginal,
			"PRECO_DESCONTO": w.PriceDiscounted,
			"DATA_INSCRICAO": now.Format("02/01/2006"),
		},
	}

	start := time.Now()
	messageID, err := s.brevoClient.SendTransacEmail(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues("send_transac_email", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	metrics.WelcomeEmailsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Warnw("Error sending welcome email (non-critical)", "error", err, "template_id", req.TemplateID)
		return
	}

	log.Infow("Welcome email sent", "message_id", messageID, "template_id", req.TemplateID)
}
