package form

import (
	"fmt"
	"time"

	"CareerBot/model"
	"CareerBot/wizard"
)

// Flow names, also used as bot commands and storage collections.
const (
	FlowProfile      = "profile"
	FlowVerification = "verify"
	FlowBooking      = "book"
	FlowEvaluation   = "evaluate"
)

// Flow describes one intake wizard.
type Flow struct {
	Name  string
	Title string
	Steps []wizard.StepID
}

var flows = map[string]Flow{
	FlowProfile: {
		Name:  FlowProfile,
		Title: "Profile",
		Steps: model.ProfileSteps,
	},
	FlowVerification: {
		Name:  FlowVerification,
		Title: "Interviewer verification",
		Steps: model.VerificationSteps,
	},
	FlowBooking: {
		Name:  FlowBooking,
		Title: "Mock interview booking",
		Steps: model.BookingSteps,
	},
	FlowEvaluation: {
		Name:  FlowEvaluation,
		Title: "Interview evaluation",
		Steps: model.EvaluationSteps,
	},
}

// Lookup returns the flow registered under name.
func Lookup(name string) (Flow, error) {
	f, ok := flows[name]
	if !ok {
		return Flow{}, fmt.Errorf("%w: %q", model.ErrUnknownFlow, name)
	}
	return f, nil
}

// NewController starts a wizard for the flow with checker as its validator.
func (f Flow) NewController(checker Checker, opts ...wizard.Option) (*wizard.Controller, error) {
	return wizard.New(f.Steps, checker.Validate, opts...)
}

func record[T wizard.Record](data wizard.Data, step wizard.StepID) (T, error) {
	var zero T
	rec, ok := data[step]
	if !ok {
		return zero, fmt.Errorf("%w: %s", model.ErrIncompleteWizard, step)
	}
	r, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", model.ErrIncompleteWizard, step, rec)
	}
	return r, nil
}

// BuildProfile assembles a completed profile wizard.
func BuildProfile(id string, userID int64, now time.Time, data wizard.Data) (model.Profile, error) {
	p := model.Profile{ID: id, UserID: userID, CreatedAt: now}
	var err error
	if p.Personal, err = record[model.PersonalDetails](data, model.StepPersonal); err != nil {
		return model.Profile{}, err
	}
	if p.Education, err = record[model.EducationDetails](data, model.StepEducation); err != nil {
		return model.Profile{}, err
	}
	if p.Experience, err = record[model.ExperienceDetails](data, model.StepExperience); err != nil {
		return model.Profile{}, err
	}
	if p.Projects, err = record[model.ProjectDetails](data, model.StepProjects); err != nil {
		return model.Profile{}, err
	}
	if p.Skills, err = record[model.SkillsDetails](data, model.StepSkills); err != nil {
		return model.Profile{}, err
	}
	if p.Certification, err = record[model.CertificationDetails](data, model.StepCertification); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// BuildVerification assembles a completed interviewer verification.
func BuildVerification(id string, userID int64, now time.Time, data wizard.Data) (model.Verification, error) {
	v := model.Verification{ID: id, UserID: userID, CreatedAt: now, Status: model.VerificationStatusSubmitted}
	var err error
	if v.Personal, err = record[model.InterviewerPersonal](data, model.StepInterviewerPersonal); err != nil {
		return model.Verification{}, err
	}
	if v.Education, err = record[model.InterviewerEducation](data, model.StepInterviewerEducation); err != nil {
		return model.Verification{}, err
	}
	if v.Work, err = record[model.InterviewerWork](data, model.StepWork); err != nil {
		return model.Verification{}, err
	}
	if v.Bank, err = record[model.BankDetails](data, model.StepBank); err != nil {
		return model.Verification{}, err
	}
	return v, nil
}

// BuildBooking assembles a completed booking. interviewID is the six digit
// code shown to the candidate.
func BuildBooking(id, interviewID string, userID int64, now time.Time, data wizard.Data) (model.Booking, error) {
	b := model.Booking{ID: id, InterviewID: interviewID, UserID: userID, CreatedAt: now}
	var err error
	if b.Role, err = record[model.BookingRole](data, model.StepRole); err != nil {
		return model.Booking{}, err
	}
	if b.Schedule, err = record[model.BookingSchedule](data, model.StepSchedule); err != nil {
		return model.Booking{}, err
	}
	if b.Skills, err = record[model.BookingSkills](data, model.StepInterviewSkills); err != nil {
		return model.Booking{}, err
	}
	if _, err = record[model.BookingPayment](data, model.StepPayment); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// BuildEvaluation assembles a completed evaluation of interviewID by
// evaluatorID.
func BuildEvaluation(id, interviewID string, evaluatorID int64, now time.Time, data wizard.Data) (model.Evaluation, error) {
	e := model.Evaluation{ID: id, InterviewID: interviewID, EvaluatorID: evaluatorID, CreatedAt: now}
	var err error
	if e.Ratings, err = record[model.EvaluationRatings](data, model.StepRatings); err != nil {
		return model.Evaluation{}, err
	}
	if e.Comments, err = record[model.EvaluationComments](data, model.StepComments); err != nil {
		return model.Evaluation{}, err
	}
	return e, nil
}
