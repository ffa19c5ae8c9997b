package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CareerBot/model"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*bot.SendMessageParams
	answered []string
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, params)
	return &models.Message{}, nil
}

func (f *fakeSender) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, params.CallbackQueryID)
	return true, nil
}

func (f *fakeSender) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1].Text
}

type fakeStore struct {
	profiles      []model.Profile
	verifications []model.Verification
	bookings      []model.Booking
	evaluations   []model.Evaluation
	failSaves     int
}

var errUnavailable = errors.New("database unavailable")

func (f *fakeStore) fail() error {
	if f.failSaves > 0 {
		f.failSaves--
		return errUnavailable
	}
	return nil
}

func (f *fakeStore) SaveProfile(_ context.Context, p model.Profile) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeStore) SaveVerification(_ context.Context, v model.Verification) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.verifications = append(f.verifications, v)
	return nil
}

func (f *fakeStore) SaveBooking(_ context.Context, b model.Booking) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeStore) SaveEvaluation(_ context.Context, e model.Evaluation) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.evaluations = append(f.evaluations, e)
	return nil
}

func (f *fakeStore) ListBookingsByInterviewID(_ context.Context, interviewID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.InterviewID == interviewID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBookingsByUserID(_ context.Context, userID int64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeFiles struct{}

func (fakeFiles) ConvertFileIDToURL(_ context.Context, fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

const testUser int64 = 4242

var testNow = time.Date(2025, 3, 22, 9, 0, 0, 0, time.UTC)

func newTestHandler() (*CareerBotHandler, *fakeSender, *fakeStore) {
	store := &fakeStore{}
	h := NewCareerBotHandler(store, fakeFiles{}, NewSessions(0, 0))
	h.Now = func() time.Time { return testNow }
	ids := 0
	h.NewID = func() string {
		ids++
		return fmt.Sprintf("sub-%d", ids)
	}
	return h, &fakeSender{}, store
}

func textUpdate(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Text: text,
		Chat: models.Chat{ID: testUser},
		From: &models.User{ID: testUser, Username: "asha", FirstName: "Asha"},
	}}
}

func send(h *CareerBotHandler, s *fakeSender, text string) {
	h.HandleUpdate(context.Background(), s, textUpdate(text))
}

func wizardIndex(t *testing.T, h *CareerBotHandler) int {
	t.Helper()
	st := h.Sessions.Get(testUser)
	require.NotNil(t, st.Session)
	return st.Session.Wizard.Index()
}

func TestHandleUpdate_StartAndHelp(t *testing.T) {
	h, s, _ := newTestHandler()

	send(h, s, "/start")
	assert.Contains(t, s.last(t), "Hey asha!")

	send(h, s, "/help")
	assert.Contains(t, s.last(t), "/profile")

	send(h, s, "hello")
	assert.Contains(t, s.last(t), "I didn't understand that command")
}

func TestHandleUpdate_BookingFlow(t *testing.T) {
	h, s, store := newTestHandler()

	send(h, s, "/book")
	assert.Contains(t, s.last(t), "step 1/4: Role")
	assert.NotNil(t, s.messages[len(s.messages)-1].ReplyMarkup)

	send(h, s, "role: Python Development")
	assert.Equal(t, 1, wizardIndex(t, h))

	send(h, s, "date: 2025-04-30\nslot: MORNING\ntime: 10:00 AM")
	assert.Equal(t, 1, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "Please fix the following")
	assert.Contains(t, s.last(t), "date: You can book interview(s) for 7 days from today")
	assert.Contains(t, s.last(t), "✓ Role")

	send(h, s, "/step 1")
	assert.Contains(t, s.last(t), "✗ Schedule")
	send(h, s, "/step 2")

	send(h, s, "date: 2025-03-24\nslot: MORNING\ntime: 10:00 AM")
	assert.Equal(t, 2, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "✓ Schedule")

	send(h, s, "primary: Django, Flask\nyears: 2\nmonths: 3")
	assert.Equal(t, 3, wizardIndex(t, h))

	send(h, s, "pay: yes")
	assert.Nil(t, h.Sessions.Get(testUser).Session)
	require.Len(t, store.bookings, 1)

	b := store.bookings[0]
	assert.Equal(t, "sub-1", b.ID)
	assert.Equal(t, testUser, b.UserID)
	assert.Equal(t, "Python Development", b.Role.Role)
	assert.Equal(t, "2025-03-24", b.Schedule.Date)
	assert.Equal(t, []string{"Django", "Flask"}, b.Skills.PrimarySkills)
	assert.Len(t, b.InterviewID, 6)
	assert.Contains(t, s.last(t), "Interview ID: "+b.InterviewID)

	send(h, s, "/bookings")
	assert.Contains(t, s.last(t), "Python Development (Interview ID: "+b.InterviewID+")")

	send(h, s, "/booking "+b.InterviewID)
	assert.Contains(t, s.last(t), "Date: 2025-03-24 at 10:00 AM (MORNING slot)")
	assert.Contains(t, s.last(t), "Primary skills: Django, Flask")

	send(h, s, "/booking 000000")
	assert.Contains(t, s.last(t), "No booking found with interview ID 000000")

	store.bookings[0].UserID = testUser + 1
	send(h, s, "/booking "+b.InterviewID)
	assert.Contains(t, s.last(t), "No booking found")
}

func TestHandleUpdate_Navigation(t *testing.T) {
	h, s, _ := newTestHandler()

	send(h, s, "/profile")
	assert.Equal(t, 0, wizardIndex(t, h))

	send(h, s, "/back")
	assert.Equal(t, 0, wizardIndex(t, h))

	send(h, s, "/step 4")
	assert.Equal(t, 3, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "step 4/6: Projects")

	send(h, s, "/step 9")
	assert.Equal(t, 3, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "There is no step 9")

	send(h, s, "/step x")
	assert.Contains(t, s.last(t), "Usage: /step N")

	send(h, s, "/back")
	assert.Equal(t, 2, wizardIndex(t, h))

	send(h, s, "/book")
	assert.Contains(t, s.last(t), "Finish it or use /cancel first")

	send(h, s, "/cancel")
	assert.Nil(t, h.Sessions.Get(testUser).Session)
	assert.Contains(t, s.last(t), "Profile cancelled")
}

func TestHandleUpdate_UnreadableReplyDoesNotSubmit(t *testing.T) {
	h, s, _ := newTestHandler()

	send(h, s, "/book")
	send(h, s, "Python please")
	assert.Contains(t, s.last(t), "I couldn't read that")
	assert.Equal(t, 0, wizardIndex(t, h))
	assert.False(t, h.Sessions.Get(testUser).Session.Wizard.Submitted(model.StepRole))

	send(h, s, "colour: blue")
	assert.Contains(t, s.last(t), `unknown field "colour"`)
}

func TestHandleUpdate_SaveFailureCanBeRetried(t *testing.T) {
	h, s, store := newTestHandler()
	store.failSaves = 1

	send(h, s, "/book")
	send(h, s, "role: Data Science")
	send(h, s, "date: 2025-03-22\nslot: EVENING\ntime: 12:30 PM")
	send(h, s, "primary: Pandas")
	send(h, s, "pay: yes")

	assert.Contains(t, s.last(t), "Error saving your details")
	assert.Equal(t, 3, wizardIndex(t, h))
	assert.Empty(t, store.bookings)
	reserved := h.Sessions.Get(testUser).Session.InterviewID
	require.Len(t, reserved, 6)

	send(h, s, "pay: yes")
	require.Len(t, store.bookings, 1)
	assert.Equal(t, "sub-1", store.bookings[0].ID)
	assert.Equal(t, reserved, store.bookings[0].InterviewID)
	assert.Nil(t, h.Sessions.Get(testUser).Session)
}

func TestHandleUpdate_PhotoAttachment(t *testing.T) {
	h, s, _ := newTestHandler()

	send(h, s, "/verify")
	h.HandleUpdate(context.Background(), s, &models.Update{Message: &models.Message{
		Chat:  models.Chat{ID: testUser},
		From:  &models.User{ID: testUser},
		Photo: []models.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}})
	assert.Contains(t, s.last(t), "Got your photo")

	send(h, s, "first name: Ravi\nlast name: Kumar\nemail: ravi@example.com\nmobile: 9876543210")
	assert.Equal(t, 1, wizardIndex(t, h))

	rec, ok := h.Sessions.Get(testUser).Session.Wizard.Record(model.StepInterviewerPersonal)
	require.True(t, ok)
	personal := rec.(model.InterviewerPersonal)
	assert.Equal(t, "large", personal.PhotoFileID)
	assert.Equal(t, "https://files.example/large", personal.PhotoFileURL)

	h.HandleUpdate(context.Background(), s, &models.Update{Message: &models.Message{
		Chat:     models.Chat{ID: testUser},
		From:     &models.User{ID: testUser},
		Document: &models.Document{FileID: "doc"},
	}})
	assert.Contains(t, s.last(t), "only be attached on the personal and certification steps")
}

func TestHandleCallback_Jump(t *testing.T) {
	h, s, _ := newTestHandler()
	send(h, s, "/profile")

	h.HandleCallback(context.Background(), s, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: testUser},
		Data: "jump:sub-1:5",
	}})
	assert.Equal(t, []string{"cb-1"}, s.answered)
	assert.Equal(t, 5, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "step 6/6: Certification")

	h.HandleCallback(context.Background(), s, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-2",
		From: models.User{ID: testUser},
		Data: "jump:sub-1:6",
	}})
	assert.Equal(t, 5, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "There is no step 7")
}

func TestHandleCallback_NoSession(t *testing.T) {
	h, s, _ := newTestHandler()

	h.HandleCallback(context.Background(), s, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: testUser},
		Data: "jump:sub-1:1",
	}})
	assert.Contains(t, s.last(t), "no longer open")
}

func TestHandleUpdate_Throttled(t *testing.T) {
	h, s, _ := newTestHandler()
	h.Sessions = NewSessions(0.001, 1)

	send(h, s, "/help")
	send(h, s, "/help")
	assert.Contains(t, s.last(t), "too quickly")
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "/step", command("/step 3"))
	assert.Equal(t, "/book", command("/Book@CareerBot"))
	assert.Equal(t, "", command(""))
}

func callback(h *CareerBotHandler, s *fakeSender, id, data string) {
	h.HandleCallback(context.Background(), s, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   id,
		From: models.User{ID: testUser},
		Data: data,
	}})
}

func document(h *CareerBotHandler, s *fakeSender, fileID, name, mime string, size int64) {
	h.HandleUpdate(context.Background(), s, &models.Update{Message: &models.Message{
		Chat:     models.Chat{ID: testUser},
		From:     &models.User{ID: testUser},
		Document: &models.Document{FileID: fileID, FileName: name, MimeType: mime, FileSize: size},
	}})
}

func bookInterview(h *CareerBotHandler, s *fakeSender) {
	send(h, s, "/book")
	send(h, s, "role: Go Development")
	send(h, s, "date: 2025-03-25\nslot: afternoon\ntime: 12:00 PM")
	send(h, s, "primary: Go")
	send(h, s, "pay: yes")
}

func TestHandleUpdate_InterviewIDIsNotReused(t *testing.T) {
	h, s, store := newTestHandler()
	store.bookings = []model.Booking{{ID: "other", InterviewID: "111111", UserID: testUser + 1}}
	draws := []string{"111111", "222222"}
	h.NewInterviewID = func() string {
		id := draws[0]
		draws = draws[1:]
		return id
	}

	bookInterview(h, s)
	require.Len(t, store.bookings, 2)
	assert.Equal(t, "222222", store.bookings[1].InterviewID)
	assert.Equal(t, model.SlotAfternoon, store.bookings[1].Schedule.TimeSlot)
	assert.Contains(t, s.last(t), "Interview ID: 222222")
	assert.Empty(t, draws)
}

func TestHandleUpdate_InterviewIDsExhausted(t *testing.T) {
	h, s, store := newTestHandler()
	store.bookings = []model.Booking{{ID: "other", InterviewID: "111111", UserID: testUser + 1}}
	h.NewInterviewID = func() string { return "111111" }

	bookInterview(h, s)
	assert.Len(t, store.bookings, 1)
	assert.Contains(t, s.last(t), "Error saving your details")
	assert.Equal(t, 3, wizardIndex(t, h))
}

func TestHandleUpdate_BookingLookupWithSharedInterviewID(t *testing.T) {
	h, s, store := newTestHandler()
	store.bookings = []model.Booking{
		{ID: "a", InterviewID: "333333", UserID: testUser + 1, Role: model.BookingRole{Role: "Data Science"}},
		{ID: "b", InterviewID: "333333", UserID: testUser, Role: model.BookingRole{Role: "Go Development"}},
	}

	send(h, s, "/booking 333333")
	assert.Contains(t, s.last(t), "Role: Go Development")
	assert.NotContains(t, s.last(t), "Data Science")

	send(h, s, "/booking")
	assert.Contains(t, s.last(t), "Usage: /booking")
}

func TestHandleUpdate_CertificateFiles(t *testing.T) {
	h, s, store := newTestHandler()
	send(h, s, "/profile")
	send(h, s, "/step 6")

	document(h, s, "doc-1", "aws.pdf", "application/pdf", 1<<20)
	assert.Contains(t, s.last(t), "File 1 will be attached to certificate 1")
	document(h, s, "doc-2", "gcp.pdf", "application/pdf", 6<<20)

	send(h, s, "[certificate]\ntitle: AWS Developer\n[certificate]\ntitle: GCP Engineer")
	assert.Equal(t, 5, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "cert-1-file: File size must be less than 5MB")
	assert.NotContains(t, s.last(t), "cert-0-file")

	session := h.Sessions.Get(testUser).Session
	rec, ok := session.Wizard.Record(model.StepCertification)
	require.True(t, ok)
	certs := rec.(model.CertificationDetails).Certificates
	require.Len(t, certs, 2)
	assert.Equal(t, "doc-1", certs[0].UploadedFileID)
	assert.Equal(t, "aws.pdf", certs[0].UploadedFileName)
	assert.Equal(t, "https://files.example/doc-1", certs[0].UploadedFileURL)
	assert.Equal(t, int64(1<<20), certs[0].UploadedFileSize)
	assert.Equal(t, "doc-2", certs[1].UploadedFileID)

	send(h, s, "/clearfiles")
	assert.Empty(t, session.Files)
	document(h, s, "doc-3", "aws.png", "image/png", 1<<10)
	send(h, s, "[certificate]\ntitle: AWS Developer")
	assert.Contains(t, s.last(t), "cert-0-file: Only PDF, JPG, and JPEG files are allowed")

	send(h, s, "/clearfiles")
	document(h, s, "doc-4", "aws.pdf", "application/pdf", 200<<10)
	send(h, s, "[certificate]\ntitle: AWS Developer")
	assert.Contains(t, s.last(t), "Please complete these steps first: 1. Personal, 2. Education, 3. Experience, 4. Projects, 5. Skills & Links.")
	assert.Empty(t, store.profiles)

	rec, _ = session.Wizard.Record(model.StepCertification)
	assert.Equal(t, "doc-4", rec.(model.CertificationDetails).Certificates[0].UploadedFileID)
	assert.False(t, session.Wizard.HasError(model.StepCertification))
}

func TestHandleCallback_StaleKeyboard(t *testing.T) {
	h, s, _ := newTestHandler()
	send(h, s, "/profile")
	send(h, s, "/cancel")
	send(h, s, "/book")

	callback(h, s, "cb-1", "jump:sub-1:2")
	assert.Equal(t, 0, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "no longer open")

	callback(h, s, "cb-2", "jump:sub-2:2")
	assert.Equal(t, 2, wizardIndex(t, h))

	callback(h, s, "cb-3", "jump:2")
	assert.Equal(t, 2, wizardIndex(t, h))
	assert.Equal(t, []string{"cb-1", "cb-2", "cb-3"}, s.answered)
}

func TestHandleCallback_Throttled(t *testing.T) {
	h, s, _ := newTestHandler()
	send(h, s, "/profile")
	h.Sessions = NewSessions(0.001, 1)
	h.Sessions.Get(testUser).Session = &Session{SubmissionID: "gone"}

	callback(h, s, "cb-1", "jump:sub-1:3")
	assert.Contains(t, s.last(t), "no longer open")
	callback(h, s, "cb-2", "jump:sub-1:3")
	assert.Contains(t, s.last(t), "too quickly")
}

func TestHandleUpdate_EvaluationFlow(t *testing.T) {
	h, s, store := newTestHandler()
	store.bookings = []model.Booking{
		{ID: "a", InterviewID: "555555", UserID: testUser + 1},
		{ID: "b", InterviewID: "777777", UserID: testUser},
	}

	send(h, s, "/evaluate")
	assert.Contains(t, s.last(t), "Usage: /evaluate")
	send(h, s, "/evaluate 999999")
	assert.Contains(t, s.last(t), "No mock interview found with interview ID 999999")
	send(h, s, "/evaluate 777777")
	assert.Contains(t, s.last(t), "can't evaluate your own")
	assert.Nil(t, h.Sessions.Get(testUser).Session)

	send(h, s, "/evaluate 555555")
	assert.Contains(t, s.last(t), "Interview evaluation · step 1/2: Ratings")

	send(h, s, "technical: 4")
	assert.Equal(t, 0, wizardIndex(t, h))
	assert.Contains(t, s.last(t), "overall: Overall rating is required")

	send(h, s, "technical: 4\noverall: 5")
	assert.Equal(t, 1, wizardIndex(t, h))

	send(h, s, "final: Strong fundamentals")
	assert.Nil(t, h.Sessions.Get(testUser).Session)
	assert.Contains(t, s.last(t), "evaluation of interview 555555")

	require.Len(t, store.evaluations, 1)
	e := store.evaluations[0]
	assert.Equal(t, "sub-1", e.ID)
	assert.Equal(t, "555555", e.InterviewID)
	assert.Equal(t, testUser, e.EvaluatorID)
	assert.Equal(t, 5, e.Ratings.Overall)
	assert.Equal(t, "Strong fundamentals", e.Comments.Final)
}
