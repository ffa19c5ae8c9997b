package model

import "CareerBot/wizard"

// Profile builder steps
const (
	StepPersonal      wizard.StepID = "personal"
	StepEducation     wizard.StepID = "education"
	StepExperience    wizard.StepID = "experience"
	StepProjects      wizard.StepID = "projects"
	StepSkills        wizard.StepID = "skills"
	StepCertification wizard.StepID = "certification"
)

// Interviewer verification steps. Personal and education are shared names
// with the profile builder but carry their own record types.
const (
	StepInterviewerPersonal  wizard.StepID = "personal"
	StepInterviewerEducation wizard.StepID = "education"
	StepWork                 wizard.StepID = "work"
	StepBank                 wizard.StepID = "bank"
)

// Mock interview booking steps
const (
	StepRole            wizard.StepID = "role"
	StepSchedule        wizard.StepID = "schedule"
	StepInterviewSkills wizard.StepID = "interview_skills"
	StepPayment         wizard.StepID = "payment"
)

// Interview evaluation steps
const (
	StepRatings  wizard.StepID = "ratings"
	StepComments wizard.StepID = "comments"
)

var (
	ProfileSteps = []wizard.StepID{
		StepPersonal, StepEducation, StepExperience, StepProjects, StepSkills, StepCertification,
	}
	VerificationSteps = []wizard.StepID{
		StepInterviewerPersonal, StepInterviewerEducation, StepWork, StepBank,
	}
	BookingSteps = []wizard.StepID{
		StepRole, StepSchedule, StepInterviewSkills, StepPayment,
	}
	EvaluationSteps = []wizard.StepID{
		StepRatings, StepComments,
	}
)

// StepTitles are the labels shown in the stepper.
var StepTitles = map[wizard.StepID]string{
	StepPersonal:        "Personal",
	StepEducation:       "Education",
	StepExperience:      "Experience",
	StepProjects:        "Projects",
	StepSkills:          "Skills & Links",
	StepCertification:   "Certification",
	StepWork:            "Work",
	StepBank:            "Bank",
	StepRole:            "Role",
	StepSchedule:        "Schedule",
	StepInterviewSkills: "Skills",
	StepPayment:         "Payment",
	StepRatings:         "Ratings",
	StepComments:        "Comments",
}
