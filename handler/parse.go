package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"CareerBot/form"
	"CareerBot/model"
	"CareerBot/wizard"
)

// A reply is a list of "field: value" lines. Lines of the form "[name]" or
// "---" start a new block, which is how repeated entries (educations,
// projects, certificates...) are entered.

type field struct {
	key   string
	value string
}

type block struct {
	section string
	fields  []field
}

var errEmptyReply = errors.New("reply has no \"field: value\" lines")

func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseBlocks(text string) ([]block, error) {
	blocks := []block{{}}
	cur := &blocks[0]
	total := 0
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case line == "---":
			blocks = append(blocks, block{section: cur.section})
			cur = &blocks[len(blocks)-1]
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			blocks = append(blocks, block{section: normalizeKey(line[1 : len(line)-1])})
			cur = &blocks[len(blocks)-1]
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"field: value\", got %q", i+1, line)
		}
		cur.fields = append(cur.fields, field{key: normalizeKey(key), value: strings.TrimSpace(value)})
		total++
	}
	if total == 0 {
		return nil, errEmptyReply
	}
	out := blocks[:0]
	for _, b := range blocks {
		if len(b.fields) > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

// setters maps normalized field names to assignments.
type setters map[string]func(v string) error

func (s setters) apply(b block) error {
	for _, f := range b.fields {
		set, ok := s[f.key]
		if !ok {
			return fmt.Errorf("unknown field %q", f.key)
		}
		if err := set(f.value); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

func str(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func upper(dst *string) func(string) error {
	return func(v string) error {
		*dst = strings.ToUpper(v)
		return nil
	}
}

func list(dst *[]string) func(string) error {
	return func(v string) error {
		*dst = splitList(v)
		return nil
	}
}

func boolean(dst *bool) func(string) error {
	return func(v string) error {
		switch strings.ToLower(v) {
		case "yes", "y", "true", "1":
			*dst = true
		case "no", "n", "false", "0", "":
			*dst = false
		default:
			return fmt.Errorf("expected yes or no, got %q", v)
		}
		return nil
	}
}

func integer(dst *int) func(string) error {
	return func(v string) error {
		if v == "" {
			*dst = 0
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected a whole number, got %q", v)
		}
		*dst = n
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseRecord turns a reply into the record of step within flow.
func parseRecord(flow string, step wizard.StepID, text string) (wizard.Record, error) {
	blocks, err := parseBlocks(text)
	if err != nil {
		return nil, err
	}
	switch flow {
	case form.FlowProfile:
		switch step {
		case model.StepPersonal:
			return parsePersonal(blocks)
		case model.StepEducation:
			return parseEducation(blocks)
		case model.StepExperience:
			return parseExperience(blocks)
		case model.StepProjects:
			return parseProjects(blocks)
		case model.StepSkills:
			return parseSkills(blocks)
		case model.StepCertification:
			return parseCertification(blocks)
		}
	case form.FlowVerification:
		switch step {
		case model.StepInterviewerPersonal:
			return parseInterviewerPersonal(blocks)
		case model.StepInterviewerEducation:
			var rec model.InterviewerEducation
			err := eachEntry(blocks, "education", func(b block) error {
				var d model.DegreeRecord
				if err := degreeSetters(&d).apply(b); err != nil {
					return err
				}
				rec.Educations = append(rec.Educations, d)
				return nil
			})
			return rec, err
		case model.StepWork:
			var rec model.InterviewerWork
			err := eachEntry(blocks, "experience", func(b block) error {
				var w model.WorkExperience
				if err := workSetters(&w).apply(b); err != nil {
					return err
				}
				rec.Experiences = append(rec.Experiences, w)
				return nil
			})
			return rec, err
		case model.StepBank:
			return parseBank(blocks)
		}
	case form.FlowBooking:
		switch step {
		case model.StepRole:
			var rec model.BookingRole
			err := all(blocks, setters{"role": str(&rec.Role)})
			return rec, err
		case model.StepSchedule:
			var rec model.BookingSchedule
			err := all(blocks, setters{
				"date":     str(&rec.Date),
				"slot":     upper(&rec.TimeSlot),
				"timeslot": upper(&rec.TimeSlot),
				"time":     str(&rec.Time),
			})
			return rec, err
		case model.StepInterviewSkills:
			var rec model.BookingSkills
			err := all(blocks, setters{
				"primary":         list(&rec.PrimarySkills),
				"primaryskills":   list(&rec.PrimarySkills),
				"secondary":       list(&rec.SecondarySkills),
				"secondaryskills": list(&rec.SecondarySkills),
				"years":           integer(&rec.YearsExp),
				"yearsexp":        integer(&rec.YearsExp),
				"months":          integer(&rec.MonthsExp),
				"monthsexp":       integer(&rec.MonthsExp),
				"resume":          integer(&rec.ResumeIndex),
			})
			return rec, err
		case model.StepPayment:
			var rec model.BookingPayment
			err := all(blocks, setters{
				"pay":     boolean(&rec.Confirmed),
				"confirm": boolean(&rec.Confirmed),
			})
			return rec, err
		}
	case form.FlowEvaluation:
		switch step {
		case model.StepRatings:
			var rec model.EvaluationRatings
			err := all(blocks, setters{
				"technical":      integer(&rec.Technical),
				"communication":  integer(&rec.Communication),
				"problemsolving": integer(&rec.ProblemSolving),
				"collaboration":  integer(&rec.Collaboration),
				"teamwork":       integer(&rec.Collaboration),
				"timemanagement": integer(&rec.TimeManagement),
				"overall":        integer(&rec.Overall),
			})
			return rec, err
		case model.StepComments:
			var rec model.EvaluationComments
			err := all(blocks, setters{
				"technical":      str(&rec.Technical),
				"communication":  str(&rec.Communication),
				"problemsolving": str(&rec.ProblemSolving),
				"collaboration":  str(&rec.Collaboration),
				"teamwork":       str(&rec.Collaboration),
				"timemanagement": str(&rec.TimeManagement),
				"overall":        str(&rec.Overall),
				"final":          str(&rec.Final),
			})
			return rec, err
		}
	}
	return nil, fmt.Errorf("no reply format for %s/%s", flow, step)
}

// all applies s to every block regardless of its section.
func all(blocks []block, s setters) error {
	for _, b := range blocks {
		if err := s.apply(b); err != nil {
			return err
		}
	}
	return nil
}

// eachEntry calls fn for every block that is an unnamed block or a block
// named section.
func eachEntry(blocks []block, section string, fn func(block) error) error {
	for _, b := range blocks {
		if b.section != "" && b.section != section {
			return fmt.Errorf("unexpected section [%s]", b.section)
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

func parsePersonal(blocks []block) (model.PersonalDetails, error) {
	var rec model.PersonalDetails
	err := all(blocks, setters{
		"firstname":      str(&rec.FirstName),
		"middlename":     str(&rec.MiddleName),
		"lastname":       str(&rec.LastName),
		"email":          str(&rec.Email),
		"mobile":         str(&rec.MobileNumber),
		"mobilenumber":   str(&rec.MobileNumber),
		"dateofbirth":    str(&rec.DateOfBirth),
		"dob":            str(&rec.DateOfBirth),
		"gender":         str(&rec.Gender),
		"languages":      list(&rec.Languages),
		"address":        str(&rec.Address),
		"country":        str(&rec.Country),
		"state":          str(&rec.State),
		"city":           str(&rec.City),
		"pincode":        str(&rec.Pincode),
		"nationality":    str(&rec.Nationality),
		"passportnumber": str(&rec.PassportNumber),
		"passport":       str(&rec.PassportNumber),
	})
	return rec, err
}

func schoolSetters(r *model.SchoolRecord) setters {
	return setters{
		"institution":     str(&r.InstitutionName),
		"institutionname": str(&r.InstitutionName),
		"board":           str(&r.BoardType),
		"boardtype":       str(&r.BoardType),
		"year":            str(&r.YearOfPassing),
		"yearofpassing":   str(&r.YearOfPassing),
		"resultformat":    str(&r.ResultFormat),
		"result":          str(&r.Result),
		"stream":          str(&r.SubjectStream),
		"subjectstream":   str(&r.SubjectStream),
	}
}

func degreeSetters(d *model.DegreeRecord) setters {
	return setters{
		"degree":            str(&d.Degree),
		"institution":       str(&d.InstitutionName),
		"institutionname":   str(&d.InstitutionName),
		"university":        str(&d.UniversityBoard),
		"universityboard":   str(&d.UniversityBoard),
		"field":             str(&d.FieldOfStudy),
		"fieldofstudy":      str(&d.FieldOfStudy),
		"start":             str(&d.StartYear),
		"startyear":         str(&d.StartYear),
		"end":               str(&d.EndYear),
		"endyear":           str(&d.EndYear),
		"resultformat":      str(&d.ResultFormat),
		"result":            str(&d.Result),
		"currentlypursuing": boolean(&d.CurrentlyPursuing),
	}
}

func parseEducation(blocks []block) (model.EducationDetails, error) {
	var rec model.EducationDetails
	for _, b := range blocks {
		switch b.section {
		case "sslc":
			if err := schoolSetters(&rec.SSLC).apply(b); err != nil {
				return rec, err
			}
		case "pu":
			if err := schoolSetters(&rec.PU).apply(b); err != nil {
				return rec, err
			}
		case "", "higher":
			var d model.DegreeRecord
			if err := degreeSetters(&d).apply(b); err != nil {
				return rec, err
			}
			rec.HigherEducations = append(rec.HigherEducations, d)
		case "extra":
			var d model.DegreeRecord
			if err := degreeSetters(&d).apply(b); err != nil {
				return rec, err
			}
			rec.ExtraEducations = append(rec.ExtraEducations, d)
		default:
			return rec, fmt.Errorf("unexpected section [%s]", b.section)
		}
	}
	return rec, nil
}

func workSetters(w *model.WorkExperience) setters {
	return setters{
		"company":          str(&w.CompanyName),
		"companyname":      str(&w.CompanyName),
		"jobtitle":         str(&w.JobTitle),
		"title":            str(&w.JobTitle),
		"employmenttype":   str(&w.EmploymentType),
		"location":         str(&w.Location),
		"workmode":         str(&w.WorkMode),
		"start":            str(&w.StartDate),
		"startdate":        str(&w.StartDate),
		"end":              str(&w.EndDate),
		"enddate":          str(&w.EndDate),
		"description":      str(&w.Description),
		"currentlyworking": boolean(&w.CurrentlyWorking),
	}
}

func parseExperience(blocks []block) (model.ExperienceDetails, error) {
	var rec model.ExperienceDetails
	for _, b := range blocks {
		switch b.section {
		case "":
			if err := (setters{"jobrole": str(&rec.JobRole), "role": str(&rec.JobRole)}).apply(b); err != nil {
				return rec, err
			}
		case "experience":
			var w model.WorkExperience
			if err := workSetters(&w).apply(b); err != nil {
				return rec, err
			}
			rec.WorkExperiences = append(rec.WorkExperiences, w)
		default:
			return rec, fmt.Errorf("unexpected section [%s]", b.section)
		}
	}
	return rec, nil
}

func parseProjects(blocks []block) (model.ProjectDetails, error) {
	var rec model.ProjectDetails
	err := eachEntry(blocks, "project", func(b block) error {
		var p model.Project
		err := setters{
			"title":                    str(&p.ProjectTitle),
			"projecttitle":             str(&p.ProjectTitle),
			"type":                     str(&p.ProjectType),
			"projecttype":              str(&p.ProjectType),
			"start":                    str(&p.StartDate),
			"startdate":                str(&p.StartDate),
			"end":                      str(&p.EndDate),
			"enddate":                  str(&p.EndDate),
			"currentlyworking":         boolean(&p.CurrentlyWorking),
			"description":              str(&p.Description),
			"roles":                    str(&p.RolesAndResponsibilities),
			"rolesandresponsibilities": str(&p.RolesAndResponsibilities),
		}.apply(b)
		if err != nil {
			return err
		}
		rec.Projects = append(rec.Projects, p)
		return nil
	})
	return rec, err
}

// parseSkillList reads "Go (Advanced), Python" into skills.
func parseSkillList(v string) []model.Skill {
	var skills []model.Skill
	for _, item := range splitList(v) {
		s := model.Skill{SkillName: item}
		if open := strings.LastIndex(item, "("); open > 0 && strings.HasSuffix(item, ")") {
			s.SkillName = strings.TrimSpace(item[:open])
			s.SkillLevel = strings.TrimSpace(item[open+1 : len(item)-1])
		}
		skills = append(skills, s)
	}
	return skills
}

func parseSkills(blocks []block) (model.SkillsDetails, error) {
	var rec model.SkillsDetails
	l := &rec.Links
	err := all(blocks, setters{
		"skills": func(v string) error {
			rec.Skills = parseSkillList(v)
			return nil
		},
		"linkedin":               str(&l.LinkedinProfile),
		"linkedinprofile":        str(&l.LinkedinProfile),
		"github":                 str(&l.GithubProfile),
		"githubprofile":          str(&l.GithubProfile),
		"portfolio":              str(&l.PortfolioURL),
		"portfoliourl":           str(&l.PortfolioURL),
		"portfoliodescription":   str(&l.PortfolioDescription),
		"publication":            str(&l.PublicationURL),
		"publicationurl":         str(&l.PublicationURL),
		"publicationdescription": str(&l.PublicationDescription),
	})
	return rec, err
}

func parseCertification(blocks []block) (model.CertificationDetails, error) {
	var rec model.CertificationDetails
	err := eachEntry(blocks, "certificate", func(b block) error {
		var c model.Certificate
		err := setters{
			"type":                  str(&c.CertificateType),
			"certificatetype":       str(&c.CertificateType),
			"title":                 str(&c.CertificateTitle),
			"certificatetitle":      str(&c.CertificateTitle),
			"domain":                str(&c.Domain),
			"provider":              str(&c.CertificateProvidedBy),
			"providedby":            str(&c.CertificateProvidedBy),
			"certificateprovidedby": str(&c.CertificateProvidedBy),
			"date":                  str(&c.Date),
			"description":           str(&c.Description),
		}.apply(b)
		if err != nil {
			return err
		}
		rec.Certificates = append(rec.Certificates, c)
		return nil
	})
	return rec, err
}

func parseInterviewerPersonal(blocks []block) (model.InterviewerPersonal, error) {
	var rec model.InterviewerPersonal
	err := all(blocks, setters{
		"firstname":    str(&rec.FirstName),
		"lastname":     str(&rec.LastName),
		"email":        str(&rec.Email),
		"mobile":       str(&rec.Mobile),
		"mobilenumber": str(&rec.Mobile),
		"linkedin":     str(&rec.Linkedin),
	})
	return rec, err
}

func parseBank(blocks []block) (model.BankDetails, error) {
	var rec model.BankDetails
	err := all(blocks, setters{
		"accountholder":        str(&rec.AccountHolderName),
		"accountholdername":    str(&rec.AccountHolderName),
		"bank":                 str(&rec.BankName),
		"bankname":             str(&rec.BankName),
		"branch":               str(&rec.BranchName),
		"branchname":           str(&rec.BranchName),
		"accountnumber":        str(&rec.AccountNumber),
		"confirmaccountnumber": str(&rec.ConfirmAccountNumber),
		"ifsc":                 upper(&rec.IFSCCode),
		"ifsccode":             upper(&rec.IFSCCode),
		"accounttype":          str(&rec.AccountType),
	})
	return rec, err
}
