// Package form holds the field rules of every intake flow and the flows
// themselves: which steps they have and how their data becomes a stored
// submission.
package form

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"CareerBot/model"
	"CareerBot/wizard"
)

// Checker validates step records. Now is used for date rules relative to
// today; nil means time.Now.
type Checker struct {
	Now func() time.Time
}

func (c Checker) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Check returns the field errors of rec. An empty result means rec may
// advance its wizard.
func (c Checker) Check(rec wizard.Record) FieldErrors {
	fe := FieldErrors{}
	switch r := rec.(type) {
	case model.PersonalDetails:
		c.checkPersonal(fe, r)
	case model.EducationDetails:
		checkEducation(fe, r)
	case model.ExperienceDetails:
		checkExperience(fe, r)
	case model.ProjectDetails:
		checkProjects(fe, r)
	case model.SkillsDetails:
		checkSkills(fe, r)
	case model.CertificationDetails:
		c.checkCertification(fe, r)
	case model.InterviewerPersonal:
		checkInterviewerPersonal(fe, r)
	case model.InterviewerEducation:
		checkInterviewerEducation(fe, r)
	case model.InterviewerWork:
		checkInterviewerWork(fe, r)
	case model.BankDetails:
		checkBank(fe, r)
	case model.BookingRole:
		fe.add("role", required(r.Role, "Role"))
	case model.BookingSchedule:
		c.checkSchedule(fe, r)
	case model.BookingSkills:
		checkBookingSkills(fe, r)
	case model.BookingPayment:
		if !r.Confirmed {
			fe.add("payment", "Confirm the payment to book the interview")
		}
	case model.EvaluationRatings:
		checkRatings(fe, r)
	case model.EvaluationComments:
		checkComments(fe, r)
	default:
		fe.add("record", fmt.Sprintf("unsupported record %T", rec))
	}
	return fe
}

// Validate adapts Check to the wizard validator signature.
func (c Checker) Validate(_ wizard.StepID, rec wizard.Record) bool {
	return len(c.Check(rec)) == 0
}

func (c Checker) checkPersonal(fe FieldErrors, r model.PersonalDetails) {
	fe.add("firstName", required(r.FirstName, "First name"))
	fe.add("lastName", required(r.LastName, "Last name"))
	if _, ok := fe["firstName"]; !ok {
		fe.add("firstName", matches(r.FirstName, personNamePattern, "Invalid characters in first name"))
	}
	fe.add("middleName", matches(r.MiddleName, personNamePattern, "Invalid characters in middle name"))
	if _, ok := fe["lastName"]; !ok {
		fe.add("lastName", matches(r.LastName, personNamePattern, "Invalid characters in last name"))
	}
	fe.add("email", required(r.Email, "Email"))
	if _, ok := fe["email"]; !ok {
		fe.add("email", matches(r.Email, emailPattern, "Enter a valid email address"))
	}
	fe.add("mobileNumber", matches(r.MobileNumber, mobilePattern, "Mobile number must be 10 digits"))
	fe.add("pincode", matches(r.Pincode, pincodePattern, "Pincode must be 6 digits"))
	if msg := validDate(r.DateOfBirth); msg != "" {
		fe.add("dateOfBirth", msg)
	} else if r.DateOfBirth != "" {
		dob, _ := time.Parse(dateLayout, r.DateOfBirth)
		if dob.After(c.now()) {
			fe.add("dateOfBirth", "Date of birth cannot be in the future")
		}
	}
}

func checkSchool(fe FieldErrors, prefix string, r model.SchoolRecord) {
	fe.add(prefix+"-institutionName", matches(r.InstitutionName, institutionPattern, "Invalid characters in name"))
	fe.add(prefix+"-yearOfPassing", validYear(r.YearOfPassing))
	fe.add(prefix+"-result", validResult(r.Result, r.ResultFormat))
}

func checkDegree(fe FieldErrors, prefix string, r model.DegreeRecord) {
	fe.add(prefix+"-institutionName", matches(r.InstitutionName, institutionPattern, "Invalid characters in name"))
	fe.add(prefix+"-universityBoard", matches(r.UniversityBoard, institutionPattern, "Invalid characters in name"))
	fe.add(prefix+"-startYear", validYear(r.StartYear))
	fe.add(prefix+"-endYear", validYear(r.EndYear))
	if !r.CurrentlyPursuing {
		if _, ok := fe[prefix+"-endYear"]; !ok {
			fe.add(prefix+"-endYear", validRange(r.StartYear, r.EndYear))
		}
	}
	fe.add(prefix+"-result", validResult(r.Result, r.ResultFormat))
}

func checkEducation(fe FieldErrors, r model.EducationDetails) {
	checkSchool(fe, "sslc", r.SSLC)
	checkSchool(fe, "pu", r.PU)
	for i, d := range r.HigherEducations {
		checkDegree(fe, fmt.Sprintf("higher-%d", i), d)
	}
	for i, d := range r.ExtraEducations {
		checkDegree(fe, fmt.Sprintf("extra-%d", i), d)
	}
}

func checkWork(fe FieldErrors, prefix string, r model.WorkExperience) {
	fe.add(prefix+"-companyName", matches(r.CompanyName, companyPattern, "Invalid characters in company name"))
	fe.add(prefix+"-jobTitle", matches(r.JobTitle, jobTitlePattern, "Invalid characters in job title"))
	fe.add(prefix+"-startDate", validDate(r.StartDate))
	fe.add(prefix+"-endDate", validDate(r.EndDate))
	if !r.CurrentlyWorking {
		if _, ok := fe[prefix+"-endDate"]; !ok {
			fe.add(prefix+"-endDate", validRange(r.StartDate, r.EndDate))
		}
	}
}

func checkExperience(fe FieldErrors, r model.ExperienceDetails) {
	for i, w := range r.WorkExperiences {
		checkWork(fe, fmt.Sprintf("exp-%d", i), w)
	}
}

func checkProjects(fe FieldErrors, r model.ProjectDetails) {
	for i, p := range r.Projects {
		prefix := fmt.Sprintf("project-%d", i)
		fe.add(prefix+"-projectTitle", matches(p.ProjectTitle, projectPattern, "Invalid characters in project title"))
		fe.add(prefix+"-startDate", validDate(p.StartDate))
		fe.add(prefix+"-endDate", validDate(p.EndDate))
		if !p.CurrentlyWorking {
			if _, ok := fe[prefix+"-endDate"]; !ok {
				fe.add(prefix+"-endDate", validRange(p.StartDate, p.EndDate))
			}
		}
	}
}

func checkSkills(fe FieldErrors, r model.SkillsDetails) {
	for i, s := range r.Skills {
		fe.add(fmt.Sprintf("skill-%d-skillName", i), matches(s.SkillName, skillPattern, "Invalid characters in skill name"))
	}
	fe.add("link-linkedinProfile", validURL(r.Links.LinkedinProfile, "LinkedIn"))
	fe.add("link-githubProfile", validURL(r.Links.GithubProfile, "GitHub"))
	fe.add("link-portfolioUrl", validURL(r.Links.PortfolioURL, "Portfolio"))
	fe.add("link-publicationUrl", validURL(r.Links.PublicationURL, "Publication"))
}

// Uploaded certificates are limited to these types and sizes.
var certificateMIMETypes = []string{"application/pdf", "image/jpeg", "image/jpg"}

const maxCertificateSize = 5 * 1024 * 1024

func (c Checker) checkCertification(fe FieldErrors, r model.CertificationDetails) {
	for i, cert := range r.Certificates {
		prefix := fmt.Sprintf("cert-%d", i)
		fe.add(prefix+"-certificateTitle", matches(cert.CertificateTitle, certTitlePattern, "Invalid characters in certificate title"))
		fe.add(prefix+"-domain", matches(cert.Domain, certDomainPattern, "Invalid characters in domain"))
		fe.add(prefix+"-certificateProvidedBy", matches(cert.CertificateProvidedBy, providerPattern, "Invalid characters in provider name"))
		if msg := validDate(cert.Date); msg != "" {
			fe.add(prefix+"-date", msg)
		} else if cert.Date != "" {
			d, _ := time.Parse(dateLayout, cert.Date)
			if d.After(c.now()) {
				fe.add(prefix+"-date", "Certificate date cannot be in the future")
			}
		}
		if cert.UploadedFileID != "" {
			if cert.UploadedFileMIME != "" && !slices.Contains(certificateMIMETypes, cert.UploadedFileMIME) {
				fe.add(prefix+"-file", "Only PDF, JPG, and JPEG files are allowed")
			} else if cert.UploadedFileSize > maxCertificateSize {
				fe.add(prefix+"-file", "File size must be less than 5MB")
			}
		}
	}
}

func checkInterviewerPersonal(fe FieldErrors, r model.InterviewerPersonal) {
	fe.add("firstName", required(r.FirstName, "First name"))
	fe.add("lastName", required(r.LastName, "Last name"))
	fe.add("email", required(r.Email, "Email"))
	if _, ok := fe["email"]; !ok {
		fe.add("email", matches(r.Email, emailPattern, "Enter a valid email address"))
	}
	fe.add("mobile", required(r.Mobile, "Mobile number"))
	if _, ok := fe["mobile"]; !ok {
		fe.add("mobile", matches(r.Mobile, mobilePattern, "Mobile number must be 10 digits"))
	}
	fe.add("linkedin", validURL(r.Linkedin, "LinkedIn"))
}

func checkInterviewerEducation(fe FieldErrors, r model.InterviewerEducation) {
	if len(r.Educations) == 0 {
		fe.add("educations", "Add at least one education entry")
	}
	for i, d := range r.Educations {
		prefix := fmt.Sprintf("edu-%d", i)
		fe.add(prefix+"-degree", required(d.Degree, "Degree"))
		checkDegree(fe, prefix, d)
	}
}

func checkInterviewerWork(fe FieldErrors, r model.InterviewerWork) {
	if len(r.Experiences) == 0 {
		fe.add("experiences", "Add at least one work experience")
	}
	for i, w := range r.Experiences {
		prefix := fmt.Sprintf("exp-%d", i)
		fe.add(prefix+"-companyName", required(w.CompanyName, "Company name"))
		if _, ok := fe[prefix+"-companyName"]; ok {
			continue
		}
		checkWork(fe, prefix, w)
	}
}

func checkBank(fe FieldErrors, r model.BankDetails) {
	fe.add("accountHolderName", required(r.AccountHolderName, "Account holder name"))
	fe.add("bankName", required(r.BankName, "Bank name"))
	fe.add("accountNumber", required(r.AccountNumber, "Account number"))
	if _, ok := fe["accountNumber"]; !ok {
		fe.add("accountNumber", matches(r.AccountNumber, accountPattern, "Account number must be 9-18 digits"))
	}
	if r.ConfirmAccountNumber != r.AccountNumber {
		fe.add("confirmAccountNumber", "Account numbers do not match")
	}
	fe.add("ifscCode", required(r.IFSCCode, "IFSC code"))
	if _, ok := fe["ifscCode"]; !ok {
		fe.add("ifscCode", matches(strings.ToUpper(r.IFSCCode), ifscPattern, "Enter a valid IFSC code"))
	}
}

func (c Checker) checkSchedule(fe FieldErrors, r model.BookingSchedule) {
	fe.add("date", required(r.Date, "Date"))
	if _, ok := fe["date"]; !ok {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			fe.add("date", "Use the YYYY-MM-DD format")
		} else {
			now := c.now()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			last := today.AddDate(0, 0, model.BookingWindowDays-1)
			if day.Before(today) || day.After(last) {
				fe.add("date", fmt.Sprintf("You can book interview(s) for %d days from today", model.BookingWindowDays))
			}
		}
	}
	times, ok := model.TimeSlots[strings.ToUpper(r.TimeSlot)]
	if !ok {
		fe.add("timeSlot", "Time slot must be MORNING, AFTERNOON or EVENING")
		return
	}
	if !slices.Contains(times, r.Time) {
		fe.add("time", fmt.Sprintf("Pick one of %s", strings.Join(times, ", ")))
	}
}

func checkBookingSkills(fe FieldErrors, r model.BookingSkills) {
	if len(r.PrimarySkills) == 0 {
		fe.add("primarySkills", "Select at least one primary skill")
	}
	if r.YearsExp < 0 {
		fe.add("yearsExp", "Years of experience cannot be negative")
	}
	if r.MonthsExp < 0 || r.MonthsExp > 11 {
		fe.add("monthsExp", "Months must be between 0-11")
	}
	if r.ResumeIndex < 0 {
		fe.add("resumeIndex", "Select a resume")
	}
}

func checkRatings(fe FieldErrors, r model.EvaluationRatings) {
	fe.add("technical", validRating(r.Technical))
	fe.add("communication", validRating(r.Communication))
	fe.add("problemSolving", validRating(r.ProblemSolving))
	fe.add("collaboration", validRating(r.Collaboration))
	fe.add("timeManagement", validRating(r.TimeManagement))
	if r.Overall == 0 {
		fe.add("overall", "Overall rating is required")
	} else {
		fe.add("overall", validRating(r.Overall))
	}
}

func checkComments(fe FieldErrors, r model.EvaluationComments) {
	fe.add("technical", validComment(r.Technical))
	fe.add("communication", validComment(r.Communication))
	fe.add("problemSolving", validComment(r.ProblemSolving))
	fe.add("collaboration", validComment(r.Collaboration))
	fe.add("timeManagement", validComment(r.TimeManagement))
	fe.add("overall", validComment(r.Overall))
	fe.add("final", validComment(r.Final))
}
