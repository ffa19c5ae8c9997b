package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"CareerBot/form"
	"CareerBot/model"
	"CareerBot/wizard"
)

// Store receives completed wizards.
type Store interface {
	SaveProfile(ctx context.Context, profile model.Profile) error
	SaveVerification(ctx context.Context, v model.Verification) error
	SaveBooking(ctx context.Context, booking model.Booking) error
	SaveEvaluation(ctx context.Context, e model.Evaluation) error
	ListBookingsByInterviewID(ctx context.Context, interviewID string) ([]model.Booking, error)
	ListBookingsByUserID(ctx context.Context, userID int64) ([]model.Booking, error)
}

// FileResolver turns uploaded Telegram files into URLs.
type FileResolver interface {
	ConvertFileIDToURL(ctx context.Context, fileID string) (string, error)
}

// Sender is the part of *bot.Bot the handler talks to.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// maxInterviewIDAttempts bounds the draws for an unused interview ID.
const maxInterviewIDAttempts = 10

type CareerBotHandler struct {
	Store          Store
	Files          FileResolver
	Sessions       *Sessions
	Now            func() time.Time
	NewID          func() string
	NewInterviewID func() string
}

func NewCareerBotHandler(store Store, files FileResolver, sessions *Sessions) *CareerBotHandler {
	return &CareerBotHandler{
		Store:          store,
		Files:          files,
		Sessions:       sessions,
		Now:            time.Now,
		NewID:          func() string { return uuid.New().String() },
		NewInterviewID: func() string { return strconv.Itoa(rand.Intn(900000) + 100000) },
	}
}

// Handler is the default update handler registered with the bot.
func (h *CareerBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.HandleUpdate(ctx, b, update)
}

// CallbackHandler handles presses on the stepper keyboard.
func (h *CareerBotHandler) CallbackHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.HandleCallback(ctx, b, update)
}

func (h *CareerBotHandler) HandleUpdate(ctx context.Context, s Sender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	log.Debug().Int64("user_id", userID).Str("username", msg.From.Username).Str("text", msg.Text).Msg("update received")

	st := h.Sessions.Get(userID)
	st.Lock()
	defer st.Unlock()

	if !st.Allow() {
		h.send(ctx, s, chatID, "You're sending messages too quickly. Please wait a moment and try again.")
		return
	}

	if st.Session == nil {
		h.handleIdle(ctx, s, st, msg)
		return
	}

	if len(msg.Photo) > 0 || msg.Document != nil {
		h.handleAttachment(ctx, s, st.Session, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		h.handleWizardCommand(ctx, s, st, chatID, text)
		return
	}
	h.handleSubmission(ctx, s, st, userID, chatID, text)
}

func (h *CareerBotHandler) handleIdle(ctx context.Context, s Sender, st *UserState, msg *models.Message) {
	chatID := msg.Chat.ID
	var text string

	switch command(msg.Text) {
	case "/start":
		name := msg.From.Username
		if name == "" {
			name = msg.From.FirstName
		}
		text = startText(name)
	case "/help":
		text = helpText
	case "/profile":
		h.startFlow(ctx, s, st, msg.From.ID, chatID, form.FlowProfile, "")
		return
	case "/verify":
		h.startFlow(ctx, s, st, msg.From.ID, chatID, form.FlowVerification, "")
		return
	case "/book":
		h.startFlow(ctx, s, st, msg.From.ID, chatID, form.FlowBooking, "")
		return
	case "/bookings":
		h.listBookings(ctx, s, chatID, msg.From.ID)
		return
	case "/booking":
		h.showBooking(ctx, s, chatID, msg.From.ID, commandArg(msg.Text))
		return
	case "/evaluate":
		h.startEvaluation(ctx, s, st, msg.From.ID, chatID, commandArg(msg.Text))
		return
	default:
		text = "I didn't understand that command. Use /start or /help."
	}
	h.send(ctx, s, chatID, text)
}

// command returns the command word of text without any @botname suffix.
func command(text string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	word, _, _ = strings.Cut(word, "@")
	return strings.ToLower(word)
}

// commandArg returns the text after the command word.
func commandArg(text string) string {
	_, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(arg)
}

// startEvaluation opens the evaluation wizard for an existing booking that
// the user did not make themselves.
func (h *CareerBotHandler) startEvaluation(ctx context.Context, s Sender, st *UserState, userID, chatID int64, interviewID string) {
	if interviewID == "" {
		h.send(ctx, s, chatID, "Usage: /evaluate <interview ID>")
		return
	}
	bookings, err := h.Store.ListBookingsByInterviewID(ctx, interviewID)
	if err != nil {
		log.Error().Err(err).Str("interview_id", interviewID).Msg("error reading booking")
		h.send(ctx, s, chatID, "Error retrieving the interview. Please try again later.")
		return
	}
	if len(bookings) == 0 {
		h.send(ctx, s, chatID, fmt.Sprintf("No mock interview found with interview ID %s.", interviewID))
		return
	}
	for _, b := range bookings {
		if b.UserID == userID {
			h.send(ctx, s, chatID, "You can't evaluate your own mock interview.")
			return
		}
	}
	h.startFlow(ctx, s, st, userID, chatID, form.FlowEvaluation, interviewID)
}

func (h *CareerBotHandler) startFlow(ctx context.Context, s Sender, st *UserState, userID, chatID int64, name, interviewID string) {
	flow, err := form.Lookup(name)
	if err != nil {
		log.Error().Err(err).Msg("error looking up flow")
		h.send(ctx, s, chatID, "An error occurred.")
		return
	}

	session := &Session{
		Flow:         flow,
		SubmissionID: h.NewID(),
		InterviewID:  interviewID,
		FieldErrors:  make(map[wizard.StepID]form.FieldErrors),
	}
	checker := form.Checker{Now: h.Now}
	c, err := flow.NewController(checker, wizard.WithSubmitter(h.submitter(session, userID)))
	if err != nil {
		log.Error().Err(err).Str("flow", name).Msg("error creating wizard")
		h.send(ctx, s, chatID, "An error occurred.")
		return
	}
	session.Wizard = c
	st.Session = session

	log.Info().Int64("user_id", userID).Str("flow", name).Str("submission_id", session.SubmissionID).Msg("wizard started")
	h.sendStep(ctx, s, chatID, session)
}

func (h *CareerBotHandler) handleWizardCommand(ctx context.Context, s Sender, st *UserState, chatID int64, text string) {
	session := st.Session
	c := session.Wizard

	switch command(text) {
	case "/cancel":
		log.Info().Int64("chat_id", chatID).Str("flow", session.Flow.Name).Int("step", c.Index()).Msg("wizard abandoned")
		st.Session = nil
		h.send(ctx, s, chatID, fmt.Sprintf("%s cancelled. Nothing was saved.", session.Flow.Title))
	case "/back":
		if _, err := c.PreviousStep(); err != nil {
			log.Error().Err(err).Msg("error moving back")
		}
		h.sendStep(ctx, s, chatID, session)
	case "/step":
		_, arg, _ := strings.Cut(text, " ")
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			h.send(ctx, s, chatID, fmt.Sprintf("Usage: /step N, where N is between 1 and %d.", c.Len()))
			return
		}
		h.jump(ctx, s, chatID, session, n-1)
	case "/clearfiles":
		session.Photo = nil
		session.Files = nil
		h.send(ctx, s, chatID, "Attached files removed. Send them again before submitting the step.")
	case "/status", "/help":
		h.sendStep(ctx, s, chatID, session)
	default:
		h.send(ctx, s, chatID, fmt.Sprintf("You are filling in your %s. Finish it or use /cancel first.", strings.ToLower(session.Flow.Title)))
	}
}

func (h *CareerBotHandler) jump(ctx context.Context, s Sender, chatID int64, session *Session, index int) {
	_, err := session.Wizard.JumpToStep(index)
	var oor *wizard.OutOfRangeError
	if errors.As(err, &oor) {
		h.send(ctx, s, chatID, fmt.Sprintf("There is no step %d. Pick a step between 1 and %d.", oor.Index+1, oor.Len))
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("error jumping to step")
		h.send(ctx, s, chatID, "An error occurred.")
		return
	}
	h.sendStep(ctx, s, chatID, session)
}

func (h *CareerBotHandler) handleSubmission(ctx context.Context, s Sender, st *UserState, userID, chatID int64, text string) {
	session := st.Session
	c := session.Wizard
	step := c.Current()

	rec, err := parseRecord(session.Flow.Name, step, text)
	if err != nil {
		h.send(ctx, s, chatID, fmt.Sprintf("I couldn't read that: %v\nUse /status to see the expected format.", err))
		return
	}
	rec = withAttachments(session, rec)

	checker := form.Checker{Now: h.Now}
	session.FieldErrors[step] = checker.Check(rec)

	res, err := c.SubmitStep(ctx, step, rec)
	switch {
	case errors.Is(err, model.ErrIncompleteWizard):
		h.send(ctx, s, chatID, fmt.Sprintf("Your details were not saved yet. Please complete these steps first: %s.", strings.Join(unfinishedSteps(c), ", ")))
		return
	case errors.Is(err, wizard.ErrSubmit):
		log.Error().Err(err).Int64("user_id", userID).Str("flow", session.Flow.Name).Msg("error submitting wizard")
		h.send(ctx, s, chatID, "Error saving your details. Please send the last step again to retry.")
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", userID).Str("flow", session.Flow.Name).Msg("error submitting step")
		h.send(ctx, s, chatID, "An error occurred.")
		return
	}

	log.Info().
		Int64("user_id", userID).
		Str("flow", session.Flow.Name).
		Str("step", string(step)).
		Bool("valid", !res.Errors[step]).
		Int("index", res.Index).
		Bool("complete", res.Complete).
		Msg("step submitted")

	if res.Complete {
		st.Session = nil
		h.send(ctx, s, chatID, completionText(session))
		return
	}
	h.sendStep(ctx, s, chatID, session)
}

// unfinishedSteps lists the steps that were never submitted or failed
// validation, as "N. Title".
func unfinishedSteps(c *wizard.Controller) []string {
	var out []string
	for i, step := range c.Steps() {
		if !c.Submitted(step) || c.HasError(step) {
			out = append(out, fmt.Sprintf("%d. %s", i+1, stepTitle(step)))
		}
	}
	return out
}

// withAttachments copies files sent during the step into its record.
func withAttachments(session *Session, rec wizard.Record) wizard.Record {
	switch r := rec.(type) {
	case model.PersonalDetails:
		if session.Photo != nil {
			r.PhotoFileID, r.PhotoFileURL = session.Photo.FileID, session.Photo.URL
		}
		return r
	case model.InterviewerPersonal:
		if session.Photo != nil {
			r.PhotoFileID, r.PhotoFileURL = session.Photo.FileID, session.Photo.URL
		}
		return r
	case model.CertificationDetails:
		certs := append([]model.Certificate(nil), r.Certificates...)
		for i := range certs {
			if i >= len(session.Files) {
				break
			}
			f := session.Files[i]
			certs[i].UploadedFileID = f.FileID
			certs[i].UploadedFileName = f.FileName
			certs[i].UploadedFileMIME = f.MIMEType
			certs[i].UploadedFileSize = f.Size
			certs[i].UploadedFileURL = f.URL
		}
		r.Certificates = certs
		return r
	}
	return rec
}

func (h *CareerBotHandler) handleAttachment(ctx context.Context, s Sender, session *Session, msg *models.Message) {
	chatID := msg.Chat.ID
	step := session.Wizard.Current()

	var att Attachment
	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		att = Attachment{FileID: largest.FileID, MIMEType: "image/jpeg", Size: int64(largest.FileSize)}
	} else {
		d := msg.Document
		att = Attachment{FileID: d.FileID, FileName: d.FileName, MIMEType: d.MimeType, Size: int64(d.FileSize)}
	}

	var photoStep bool
	switch {
	case step == model.StepPersonal && session.Flow.Name == form.FlowProfile,
		step == model.StepInterviewerPersonal && session.Flow.Name == form.FlowVerification:
		photoStep = true
	case step == model.StepCertification && session.Flow.Name == form.FlowProfile:
	default:
		h.send(ctx, s, chatID, "Files can only be attached on the personal and certification steps.")
		return
	}

	if h.Files != nil {
		url, err := h.Files.ConvertFileIDToURL(ctx, att.FileID)
		if err != nil {
			log.Warn().Err(err).Str("file_id", att.FileID).Msg("error resolving file url")
		}
		att.URL = url
	}

	if photoStep {
		session.Photo = &att
		h.send(ctx, s, chatID, "Got your photo! It will be saved with this step when you send the details.")
		return
	}
	session.Files = append(session.Files, att)
	h.send(ctx, s, chatID, fmt.Sprintf("Got it! File %d will be attached to certificate %d.", len(session.Files), len(session.Files)))
}

// submitter hands completed wizard data to the store.
func (h *CareerBotHandler) submitter(session *Session, userID int64) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, data wizard.Data) error {
		now := h.Now()
		switch session.Flow.Name {
		case form.FlowProfile:
			p, err := form.BuildProfile(session.SubmissionID, userID, now, data)
			if err != nil {
				return err
			}
			return h.Store.SaveProfile(ctx, p)
		case form.FlowVerification:
			v, err := form.BuildVerification(session.SubmissionID, userID, now, data)
			if err != nil {
				return err
			}
			return h.Store.SaveVerification(ctx, v)
		case form.FlowBooking:
			b, err := form.BuildBooking(session.SubmissionID, session.InterviewID, userID, now, data)
			if err != nil {
				return err
			}
			if b.InterviewID, err = h.reserveInterviewID(ctx, session); err != nil {
				return err
			}
			return h.Store.SaveBooking(ctx, b)
		case form.FlowEvaluation:
			e, err := form.BuildEvaluation(session.SubmissionID, session.InterviewID, userID, now, data)
			if err != nil {
				return err
			}
			return h.Store.SaveEvaluation(ctx, e)
		}
		return fmt.Errorf("%w: %q", model.ErrUnknownFlow, session.Flow.Name)
	})
}

// reserveInterviewID picks an interview ID no other booking uses. The ID is
// kept on the session so a retried save reuses it.
func (h *CareerBotHandler) reserveInterviewID(ctx context.Context, session *Session) (string, error) {
	candidate := session.InterviewID
	for range maxInterviewIDAttempts {
		if candidate == "" {
			candidate = h.NewInterviewID()
		}
		bookings, err := h.Store.ListBookingsByInterviewID(ctx, candidate)
		if err != nil {
			return "", err
		}
		taken := false
		for _, b := range bookings {
			if b.ID != session.SubmissionID {
				taken = true
				break
			}
		}
		if !taken {
			session.InterviewID = candidate
			return candidate, nil
		}
		candidate = ""
	}
	return "", fmt.Errorf("no free interview ID after %d attempts", maxInterviewIDAttempts)
}

func completionText(session *Session) string {
	switch session.Flow.Name {
	case form.FlowProfile:
		return "Your profile is complete and saved! We'll use it to personalize your resume and interview preparation."
	case form.FlowVerification:
		return "Your details have been submitted for verification. We'll notify you once they are reviewed."
	case form.FlowBooking:
		data := session.Wizard.Data()
		schedule, _ := data[model.StepSchedule].(model.BookingSchedule)
		role, _ := data[model.StepRole].(model.BookingRole)
		return fmt.Sprintf("Your mock interview is booked!\nInterview ID: %s\nRole: %s\nDate: %s at %s (IST)",
			session.InterviewID, role.Role, schedule.Date, schedule.Time)
	case form.FlowEvaluation:
		return fmt.Sprintf("Thank you! Your evaluation of interview %s has been submitted.", session.InterviewID)
	}
	return "Done!"
}

func (h *CareerBotHandler) listBookings(ctx context.Context, s Sender, chatID, userID int64) {
	bookings, err := h.Store.ListBookingsByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("error listing bookings")
		h.send(ctx, s, chatID, "Error retrieving bookings. Please try again later.")
		return
	}
	if len(bookings) == 0 {
		h.send(ctx, s, chatID, "You have no mock interviews booked. Use /book to schedule one.")
		return
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Schedule.Date != bookings[j].Schedule.Date {
			return bookings[i].Schedule.Date < bookings[j].Schedule.Date
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})

	var b strings.Builder
	b.WriteString("Here are your mock interviews:\n")
	for _, booking := range bookings {
		fmt.Fprintf(&b, "- %s (Interview ID: %s)\n", booking.Role.Role, booking.InterviewID)
		fmt.Fprintf(&b, "  Date: %s at %s\n", booking.Schedule.Date, booking.Schedule.Time)
	}
	h.send(ctx, s, chatID, b.String())
}

// userBooking finds the booking of userID with interviewID. Bookings of
// other users are reported as missing.
func (h *CareerBotHandler) userBooking(ctx context.Context, userID int64, interviewID string) (*model.Booking, error) {
	bookings, err := h.Store.ListBookingsByInterviewID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.UserID == userID {
			return &b, nil
		}
	}
	return nil, model.ErrBookingDoesNotExist
}

func (h *CareerBotHandler) showBooking(ctx context.Context, s Sender, chatID, userID int64, interviewID string) {
	if interviewID == "" {
		h.send(ctx, s, chatID, "Usage: /booking <interview ID>")
		return
	}
	booking, err := h.userBooking(ctx, userID, interviewID)
	if err != nil && !errors.Is(err, model.ErrBookingDoesNotExist) {
		log.Error().Err(err).Str("interview_id", interviewID).Msg("error reading booking")
		h.send(ctx, s, chatID, "Error retrieving the booking. Please try again later.")
		return
	}
	if err != nil {
		h.send(ctx, s, chatID, fmt.Sprintf("No booking found with interview ID %s.", interviewID))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Interview ID: %s\n", booking.InterviewID)
	fmt.Fprintf(&b, "Role: %s\n", booking.Role.Role)
	fmt.Fprintf(&b, "Date: %s at %s (%s slot)\n", booking.Schedule.Date, booking.Schedule.Time, booking.Schedule.TimeSlot)
	if len(booking.Skills.PrimarySkills) > 0 {
		fmt.Fprintf(&b, "Primary skills: %s\n", strings.Join(booking.Skills.PrimarySkills, ", "))
	}
	if len(booking.Skills.SecondarySkills) > 0 {
		fmt.Fprintf(&b, "Secondary skills: %s\n", strings.Join(booking.Skills.SecondarySkills, ", "))
	}
	fmt.Fprintf(&b, "Experience: %d years %d months", booking.Skills.YearsExp, booking.Skills.MonthsExp)
	h.send(ctx, s, chatID, b.String())
}

func (h *CareerBotHandler) HandleCallback(ctx context.Context, s Sender, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	userID := cq.From.ID

	if _, err := s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		log.Warn().Err(err).Msg("error answering callback query")
	}

	st := h.Sessions.Get(userID)
	st.Lock()
	defer st.Unlock()

	if !st.Allow() {
		h.send(ctx, s, userID, "You're sending messages too quickly. Please wait a moment and try again.")
		return
	}

	submissionID, index, err := parseJumpData(cq.Data)
	if err != nil {
		log.Warn().Err(err).Str("data", cq.Data).Msg("invalid stepper callback data")
		return
	}
	// Buttons of a cancelled or finished wizard must not move a newer one.
	if st.Session == nil || st.Session.SubmissionID != submissionID {
		h.send(ctx, s, userID, "That button belongs to a form that is no longer open. Use /help to start again.")
		return
	}
	h.jump(ctx, s, userID, st.Session, index)
}

func (h *CareerBotHandler) sendStep(ctx context.Context, s Sender, chatID int64, session *Session) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        renderStep(session),
		ReplyMarkup: stepperKeyboard(session),
	})
	if err != nil {
		log.Error().Err(err).Msg("error sending message")
	}
}

func (h *CareerBotHandler) send(ctx context.Context, s Sender, chatID int64, text string) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Error().Err(err).Msg("error sending message")
	}
}
