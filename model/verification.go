package model

import (
	"time"

	"CareerBot/wizard"
)

type InterviewerPersonal struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Linkedin     string `json:"linkedin"`
	PhotoFileID  string `json:"photoFileID,omitempty"`
	PhotoFileURL string `json:"photoFileURL,omitempty"`
}

func (InterviewerPersonal) Step() wizard.StepID { return StepInterviewerPersonal }

type InterviewerEducation struct {
	Educations []DegreeRecord `json:"educations"`
}

func (InterviewerEducation) Step() wizard.StepID { return StepInterviewerEducation }

type InterviewerWork struct {
	Experiences []WorkExperience `json:"experiences"`
}

func (InterviewerWork) Step() wizard.StepID { return StepWork }

type BankDetails struct {
	AccountHolderName    string `json:"accountHolderName"`
	BankName             string `json:"bankName"`
	BranchName           string `json:"branchName"`
	AccountNumber        string `json:"accountNumber"`
	ConfirmAccountNumber string `json:"-"`
	IFSCCode             string `json:"ifscCode"`
	AccountType          string `json:"accountType"`
}

func (BankDetails) Step() wizard.StepID { return StepBank }

// Verification is the stored result of a completed interviewer sign-up.
type Verification struct {
	ID        string               `json:"id"`
	UserID    int64                `json:"userid"`
	CreatedAt time.Time            `json:"createdAt"`
	Status    string               `json:"status"`
	Personal  InterviewerPersonal  `json:"personal"`
	Education InterviewerEducation `json:"education"`
	Work      InterviewerWork      `json:"work"`
	Bank      BankDetails          `json:"bank"`
}

const VerificationStatusSubmitted = "submitted"
