package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"

	"CareerBot/form"
	"CareerBot/model"
	"CareerBot/wizard"
)

const jumpPrefix = "jump:"

// maxMessageLength is the longest text Telegram accepts in one message.
const maxMessageLength = 4096

// Stepper markers
const (
	markCurrent = "▶"
	markDone    = "✓"
	markError   = "✗"
	markPending = "·"
)

var prompts = map[string]map[wizard.StepID]string{
	form.FlowProfile: {
		model.StepPersonal: `first name:
middle name:
last name:
email:
mobile:
date of birth: YYYY-MM-DD
gender:
languages: Kannada, Hindi, English
address:
country:
state:
city:
pincode:
nationality:
passport number:
(send a photo to attach a profile picture)`,
		model.StepEducation: `[sslc]
institution:
board:
year of passing:
result format: Percentage | CGPA | Grade
result:
[pu]
institution:
board:
year of passing:
subject stream:
result format:
result:
[higher]
degree:
institution:
university:
field of study:
start year:
end year:
currently pursuing: no
result format:
result:
(repeat [higher] or add [extra] blocks for more)`,
		model.StepExperience: `job role:
[experience]
company:
job title:
employment type:
location:
work mode:
start date: YYYY-MM-DD
end date: YYYY-MM-DD
currently working: no
description:
(repeat [experience] for more)`,
		model.StepProjects: `[project]
title:
type:
start date: YYYY-MM-DD
end date: YYYY-MM-DD
currently working: no
description:
roles:
(repeat [project] for more)`,
		model.StepSkills: `skills: Go (Advanced), Python (Intermediate)
linkedin:
github:
portfolio:
portfolio description:
publication:
publication description: `,
		model.StepCertification: `[certificate]
type:
title:
domain:
provider:
date: YYYY-MM-DD
description:
(repeat [certificate] for more; send PDF or JPG files to attach them in order)`,
	},
	form.FlowVerification: {
		model.StepInterviewerPersonal: `first name:
last name:
email:
mobile:
linkedin:
(send a photo to attach a profile picture)`,
		model.StepInterviewerEducation: `[education]
degree:
institution:
university:
field of study:
start year:
end year:
result format:
result:
(repeat [education] for more)`,
		model.StepWork: `[experience]
company:
job title:
start date: YYYY-MM-DD
end date: YYYY-MM-DD
currently working: no
(repeat [experience] for more)`,
		model.StepBank: `account holder:
bank: sbi | hdfc | icici | axis
branch:
account number:
confirm account number:
ifsc:
account type: savings | current`,
	},
	form.FlowBooking: {
		model.StepRole: `role: Python Development`,
		model.StepSchedule: `date: YYYY-MM-DD (within 7 days)
slot: MORNING | AFTERNOON | EVENING
time: 10:00 AM`,
		model.StepInterviewSkills: `primary: Skill 1, Skill 2
secondary:
years: 1
months: 0
resume: 0`,
		model.StepPayment: `pay: yes`,
	},
	form.FlowEvaluation: {
		model.StepRatings: `Rate each area from 1 to 5 (overall is required):
technical:
communication:
problem solving:
teamwork:
time management:
overall:`,
		model.StepComments: `technical:
communication:
problem solving:
teamwork:
time management:
overall:
final: any other observations`,
	},
}

func stepTitle(step wizard.StepID) string {
	if t, ok := model.StepTitles[step]; ok {
		return t
	}
	return string(step)
}

func stepMark(c *wizard.Controller, i int, step wizard.StepID) string {
	switch {
	case i == c.Index():
		return markCurrent
	case c.HasError(step):
		return markError
	case c.Submitted(step):
		return markDone
	default:
		return markPending
	}
}

// stepperLine renders the progress of the wizard on one line.
func stepperLine(c *wizard.Controller) string {
	parts := make([]string, 0, c.Len())
	for i, step := range c.Steps() {
		parts = append(parts, stepMark(c, i, step)+" "+stepTitle(step))
	}
	return strings.Join(parts, "  ")
}

// jumpData encodes a stepper button as "jump:<submission id>:<index>". The
// submission ID ties the button to the wizard that rendered it.
func jumpData(submissionID string, index int) string {
	return fmt.Sprintf("%s%s:%d", jumpPrefix, submissionID, index)
}

func parseJumpData(data string) (string, int, error) {
	rest, ok := strings.CutPrefix(data, jumpPrefix)
	if !ok {
		return "", 0, errors.New("missing jump prefix")
	}
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", 0, errors.New("missing submission id")
	}
	index, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("bad step index: %w", err)
	}
	return rest[:i], index, nil
}

// stepperKeyboard lets the user jump straight to any step.
func stepperKeyboard(s *Session) *models.InlineKeyboardMarkup {
	const perRow = 3
	c := s.Wizard
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for i, step := range c.Steps() {
		row = append(row, models.InlineKeyboardButton{
			Text:         fmt.Sprintf("%s %d. %s", stepMark(c, i, step), i+1, stepTitle(step)),
			CallbackData: jumpData(s.SubmissionID, i),
		})
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// renderStep builds the message for the current step of a session,
// including field errors from the last failed submission. The result always
// fits in one Telegram message: the saved record is left out first, then
// field errors are cut.
func renderStep(s *Session) string {
	c := s.Wizard
	step := c.Current()

	var head strings.Builder
	fmt.Fprintf(&head, "%s · step %d/%d: %s\n", s.Flow.Title, c.Index()+1, c.Len(), stepTitle(step))
	head.WriteString(stepperLine(c))
	head.WriteString("\n\n")

	tail := "Reply with:\n" + prompts[s.Flow.Name][step] + "\n\n/back previous step · /step N jump · /status · /cancel"

	var errs string
	if fe := s.FieldErrors[step]; c.HasError(step) && len(fe) > 0 {
		errs = errorBlock(fe.Sorted(), maxMessageLength-textLen(head.String())-textLen(tail)-textLen(savedTooLong))
	}

	var saved string
	if rec, ok := c.Record(step); ok {
		if b, err := json.MarshalIndent(rec, "", "  "); err == nil {
			saved = "Currently saved:\n" + string(b) + "\n\n"
		}
	}

	msg := head.String() + errs + saved + tail
	if textLen(msg) > maxMessageLength && saved != "" {
		msg = head.String() + errs + savedTooLong + tail
	}
	return truncate(msg, maxMessageLength)
}

const (
	errorsHeader = "Please fix the following and send the step again:\n"
	savedTooLong = "Currently saved: too long to show.\n\n"
)

// errorBlock lists field errors within budget characters, replacing the
// lines that do not fit with a count.
func errorBlock(lines []string, budget int) string {
	const moreReserve = 32
	var b strings.Builder
	b.WriteString(errorsHeader)
	used := textLen(errorsHeader) + 1
	for i, line := range lines {
		entry := "- " + line + "\n"
		if used+textLen(entry)+moreReserve > budget {
			fmt.Fprintf(&b, "- … and %d more\n", len(lines)-i)
			break
		}
		b.WriteString(entry)
		used += textLen(entry)
	}
	b.WriteString("\n")
	return b.String()
}

// textLen counts UTF-16 code units, which is how Telegram measures text.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func truncate(s string, n int) string {
	if textLen(s) <= n {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		if used+utf16.RuneLen(r) > n-1 {
			break
		}
		b.WriteRune(r)
		used += utf16.RuneLen(r)
	}
	b.WriteString("…")
	return b.String()
}

const helpText = `Commands:
/start – Start interacting with me and see a quick introduction.
/profile – Build your career profile step by step.
/verify – Sign up as an interviewer and submit your details for verification.
/book – Book a mock interview.
/bookings – See the mock interviews you have booked.
/booking ID – Show the details of one booking.
/evaluate ID – Evaluate a mock interview you conducted.
/help – Get a reminder of commands and how to use me.

While filling a form:
/back – Go to the previous step.
/step N – Jump to step N.
/status – Show where you are.
/clearfiles – Remove the photo and files attached so far.
/cancel – Abandon the form.`

func startText(name string) string {
	return fmt.Sprintf(`Hey %s! I'm your career companion.
Here's how I can help:
Build your profile: /profile
Book a mock interview with an industry expert: /book
Give mock interviews as a verified interviewer: /verify

Just type /help anytime to see what else I can do for you!`, name)
}
