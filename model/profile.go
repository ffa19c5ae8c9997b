package model

import (
	"time"

	"CareerBot/wizard"
)

type PersonalDetails struct {
	FirstName      string   `json:"firstName"`
	MiddleName     string   `json:"middleName,omitempty"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	MobileNumber   string   `json:"mobileNumber"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Gender         string   `json:"gender"`
	Languages      []string `json:"languages"`
	Address        string   `json:"address"`
	Country        string   `json:"country"`
	State          string   `json:"state"`
	City           string   `json:"city"`
	Pincode        string   `json:"pincode"`
	Nationality    string   `json:"nationality"`
	PassportNumber string   `json:"passportNumber,omitempty"`
	PhotoFileID    string   `json:"photoFileID,omitempty"`
	PhotoFileURL   string   `json:"photoFileURL,omitempty"`
}

func (PersonalDetails) Step() wizard.StepID { return StepPersonal }

// SchoolRecord covers the SSLC and PU sections of the education form.
type SchoolRecord struct {
	InstitutionName string `json:"institutionName"`
	BoardType       string `json:"boardType"`
	YearOfPassing   string `json:"yearOfPassing"`
	ResultFormat    string `json:"resultFormat"`
	Result          string `json:"result"`
	SubjectStream   string `json:"subjectStream,omitempty"`
}

type DegreeRecord struct {
	Degree            string `json:"degree"`
	InstitutionName   string `json:"institutionName"`
	UniversityBoard   string `json:"universityBoard"`
	FieldOfStudy      string `json:"fieldOfStudy"`
	StartYear         string `json:"startYear"`
	EndYear           string `json:"endYear"`
	ResultFormat      string `json:"resultFormat"`
	Result            string `json:"result"`
	CurrentlyPursuing bool   `json:"currentlyPursuing"`
}

type EducationDetails struct {
	SSLC             SchoolRecord   `json:"sslc"`
	PU               SchoolRecord   `json:"pu"`
	HigherEducations []DegreeRecord `json:"higherEducations"`
	ExtraEducations  []DegreeRecord `json:"extraEducations,omitempty"`
}

func (EducationDetails) Step() wizard.StepID { return StepEducation }

type WorkExperience struct {
	CompanyName      string `json:"companyName"`
	JobTitle         string `json:"jobTitle"`
	EmploymentType   string `json:"employmentType"`
	Location         string `json:"location"`
	WorkMode         string `json:"workMode"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Description      string `json:"description"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
}

type ExperienceDetails struct {
	JobRole         string           `json:"jobRole"`
	WorkExperiences []WorkExperience `json:"workExperiences"`
}

func (ExperienceDetails) Step() wizard.StepID { return StepExperience }

type Project struct {
	ProjectTitle             string `json:"projectTitle"`
	ProjectType              string `json:"projectType"`
	StartDate                string `json:"startDate"`
	EndDate                  string `json:"endDate"`
	CurrentlyWorking         bool   `json:"currentlyWorking"`
	Description              string `json:"description"`
	RolesAndResponsibilities string `json:"rolesAndResponsibilities"`
}

type ProjectDetails struct {
	Projects []Project `json:"projects"`
}

func (ProjectDetails) Step() wizard.StepID { return StepProjects }

type Skill struct {
	SkillName  string `json:"skillName"`
	SkillLevel string `json:"skillLevel"`
}

type Links struct {
	LinkedinProfile        string `json:"linkedinProfile,omitempty"`
	GithubProfile          string `json:"githubProfile,omitempty"`
	PortfolioURL           string `json:"portfolioUrl,omitempty"`
	PortfolioDescription   string `json:"portfolioDescription,omitempty"`
	PublicationURL         string `json:"publicationUrl,omitempty"`
	PublicationDescription string `json:"publicationDescription,omitempty"`
}

type SkillsDetails struct {
	Skills []Skill `json:"skills"`
	Links  Links   `json:"links"`
}

func (SkillsDetails) Step() wizard.StepID { return StepSkills }

type Certificate struct {
	CertificateType       string `json:"certificateType"`
	CertificateTitle      string `json:"certificateTitle"`
	Domain                string `json:"domain"`
	CertificateProvidedBy string `json:"certificateProvidedBy"`
	Date                  string `json:"date"`
	Description           string `json:"description"`
	UploadedFileID        string `json:"uploadedFileID,omitempty"`
	UploadedFileName      string `json:"uploadedFileName,omitempty"`
	UploadedFileURL       string `json:"uploadedFileURL,omitempty"`
	UploadedFileMIME      string `json:"uploadedFileMIME,omitempty"`
	UploadedFileSize      int64  `json:"uploadedFileSize,omitempty"`
}

type CertificationDetails struct {
	Certificates []Certificate `json:"certificates"`
}

func (CertificationDetails) Step() wizard.StepID { return StepCertification }

// Profile is the stored result of a completed profile builder.
type Profile struct {
	ID            string               `json:"id"`
	UserID        int64                `json:"userid"`
	CreatedAt     time.Time            `json:"createdAt"`
	Personal      PersonalDetails      `json:"personal"`
	Education     EducationDetails     `json:"education"`
	Experience    ExperienceDetails    `json:"experience"`
	Projects      ProjectDetails       `json:"projects"`
	Skills        SkillsDetails        `json:"skills"`
	Certification CertificationDetails `json:"certification"`
}
