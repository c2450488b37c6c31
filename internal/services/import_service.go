package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/mailer"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/repository"
	"github.com/campusportal/portal-api/internal/utils"
)

var (
	// ErrCSVParse marks input that could not be read as the expected table.
	ErrCSVParse = errors.New("error parsing CSV")
	// ErrCSVImport marks a failure while resolving or linking entities.
	ErrCSVImport = errors.New("error importing data")

	// errValidateRollback forces the surrounding transaction to roll back
	// in validate-only mode. Validation and import share one code path;
	// only this final rollback differs.
	errValidateRollback = errors.New("validate-only rollback")
	// errAbortImport rolls back the transaction when row errors
	// accumulated; the errors travel in the result, not in this sentinel.
	errAbortImport = errors.New("import aborted")
)

var csvColumns = []string{
	"project_name",
	"project_year",
	"project_term",
	"client_org_name",
	"client_rep_email",
	"client_rep_name",
	"client_rep_github_username",
	"ta_email",
	"ta_name",
	"ta_github_username",
	"student_email",
	"student_name",
	"student_github_username",
}

// ImportResult reports what an import did (or, in validate mode, would have
// done): every user/org/project observed, split into new and existing, plus
// accumulated row errors. Errors are accumulated across rows rather than
// failing fast so one pass yields the full report.
type ImportResult struct {
	NewUsers      []models.User
	ExistingUsers []models.User

	NewOrgs      []models.ClientOrg
	ExistingOrgs []models.ClientOrg

	NewProjects      []models.Project
	ExistingProjects []models.Project

	Errors   []string
	Warnings []string
}

type importUserRow struct {
	email          string
	name           string
	githubUsername string
}

type importProjectRow struct {
	name string
	year int
	term string
}

type importLinkRow struct {
	projectName  string
	orgName      string
	repEmail     string
	taEmail      string
	studentEmail string
}

// csvData holds the four logical tables derived from the input: users
// (students, TAs, and reps combined, deduplicated by email with the first
// occurrence winning), orgs and projects deduplicated by name, and one link
// row per input row.
type csvData struct {
	users    []importUserRow
	orgs     []string
	projects []importProjectRow
	links    []importLinkRow
}

// ImportService reconciles CSV rows against existing users, orgs, and
// projects inside one transaction.
type ImportService struct {
	db     *gorm.DB
	mailer *mailer.Mailer
}

// NewImportService creates a new ImportService.
func NewImportService(db *gorm.DB, m *mailer.Mailer) *ImportService {
	return &ImportService{db: db, mailer: m}
}

// Import runs the reconciliation and commits on success.
func (s *ImportService) Import(input io.Reader) (*ImportResult, error) {
	return s.run(input, true)
}

// Validate runs the identical reconciliation but unconditionally discards
// all writes at the end, reporting what an import would have done.
func (s *ImportService) Validate(input io.Reader) (*ImportResult, error) {
	return s.run(input, false)
}

func (s *ImportService) run(input io.Reader, apply bool) (*ImportResult, error) {
	data, err := parseCSV(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCSVParse, err)
	}

	result := &ImportResult{Warnings: []string{}}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reconcile(tx, data, result); err != nil {
			return fmt.Errorf("%w: %v", ErrCSVImport, err)
		}
		if len(result.Errors) > 0 {
			// Roll back everything; the accumulated errors are the
			// whole outcome.
			return errAbortImport
		}
		if !apply {
			return errValidateRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAbortImport) && !errors.Is(err, errValidateRollback) {
		return nil, err
	}

	return result, nil
}

// reconcile resolves every derived row against the store, creating what is
// missing, then links the rows. Row errors accumulate in result.Errors;
// only infrastructure failures return an error.
func (s *ImportService) reconcile(tx *gorm.DB, data *csvData, result *ImportResult) error {
	userRepo := repository.NewUserRepository(tx)
	orgRepo := repository.NewClientOrgRepository(tx)
	projectRepo := repository.NewProjectRepository(tx)

	if err := s.reconcileUsers(userRepo, data.users, result); err != nil {
		return err
	}
	if err := s.reconcileOrgs(orgRepo, data.orgs, result); err != nil {
		return err
	}

	newProjects, existingProjects, err := s.reconcileProjects(projectRepo, data.projects, result)
	if err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		return nil
	}

	return s.linkRows(tx, data.links, newProjects, existingProjects, result)
}

func (s *ImportService) reconcileUsers(userRepo repository.UserRepository, rows []importUserRow, result *ImportResult) error {
	for _, row := range rows {
		existing, err := userRepo.FindByEmail(row.email)
		if err == nil {
			result.ExistingUsers = append(result.ExistingUsers, *existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// No user with this email. A matching name or GitHub username on
		// some other user is ambiguous and recorded as an error; the row
		// is still processed so every problem surfaces in one pass.
		if row.name != "" {
			matches, err := userRepo.ListByName(row.name)
			if err != nil {
				return err
			}
			if len(matches) > 0 {
				result.Errors = append(result.Errors,
					fmt.Sprintf("users already exist with name %q: %s", row.name, describeUsers(matches)))
			}
		}
		if row.githubUsername != "" {
			matches, err := userRepo.ListByGithubUsername(row.githubUsername)
			if err != nil {
				return err
			}
			if len(matches) > 0 {
				result.Errors = append(result.Errors,
					fmt.Sprintf("users already exist with github username %q: %s", row.githubUsername, describeUsers(matches)))
			}
		}

		user := &models.User{
			Email:          row.email,
			Name:           row.name,
			GithubUsername: row.githubUsername,
		}
		// Imported users have no credential. Those without a GitHub
		// identity get an activation key and an activation email; a send
		// failure is fatal and rolls the import back.
		if user.GithubUsername == "" {
			key := utils.GenerateKey()
			user.ActivationKey = &key
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}
		if user.ActivationKey != nil {
			if err := s.mailer.SendActivationEmail(user); err != nil {
				return err
			}
		}
		result.NewUsers = append(result.NewUsers, *user)
	}
	return nil
}

func (s *ImportService) reconcileOrgs(orgRepo repository.ClientOrgRepository, names []string, result *ImportResult) error {
	for _, name := range names {
		existing, err := orgRepo.FindByName(name)
		if err == nil {
			result.ExistingOrgs = append(result.ExistingOrgs, *existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		org := &models.ClientOrg{Name: name}
		if err := orgRepo.Create(org); err != nil {
			return err
		}
		result.NewOrgs = append(result.NewOrgs, *org)
	}
	return nil
}

// reconcileProjects returns the new/existing project names; the result's
// project lists are filled in during linking from the projects the link
// rows actually reference.
func (s *ImportService) reconcileProjects(projectRepo repository.ProjectRepository, rows []importProjectRow, result *ImportResult) (newNames, existingNames map[string]bool, err error) {
	newNames = make(map[string]bool)
	existingNames = make(map[string]bool)

	for _, row := range rows {
		_, err := projectRepo.FindByName(row.name)
		if err == nil {
			existingNames[row.name] = true
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		// Newly imported projects start unpublished.
		project := &models.Project{
			Name:        row.name,
			Year:        row.year,
			Term:        models.Term(row.term),
			IsPublished: false,
		}
		if err := projectRepo.Create(project); err != nil {
			return nil, nil, err
		}
		newNames[row.name] = true
	}
	return newNames, existingNames, nil
}

// linkRows applies one link per input row. For a project named by several
// rows the last row wins for the singular org/rep/TA fields (input-file
// order); students and reps accumulate as set membership.
func (s *ImportService) linkRows(tx *gorm.DB, links []importLinkRow, newNames, existingNames map[string]bool, result *ImportResult) error {
	userRepo := repository.NewUserRepository(tx)
	orgRepo := repository.NewClientOrgRepository(tx)
	projectRepo := repository.NewProjectRepository(tx)

	reported := make(map[string]bool)

	for _, link := range links {
		project, err := projectRepo.FindByName(link.projectName)
		if err != nil {
			return err
		}
		org, err := orgRepo.FindByName(link.orgName)
		if err != nil {
			return err
		}
		rep, err := userRepo.FindByEmail(link.repEmail)
		if err != nil {
			return err
		}
		ta, err := userRepo.FindByEmail(link.taEmail)
		if err != nil {
			return err
		}
		student, err := userRepo.FindByEmail(link.studentEmail)
		if err != nil {
			return err
		}

		project.ClientOrgID = &org.ID
		project.ClientRepID = &rep.ID
		project.TAID = &ta.ID
		if err := projectRepo.Save(project); err != nil {
			return err
		}
		if err := projectRepo.AddStudent(project, student); err != nil {
			return err
		}
		if err := orgRepo.AddRep(org, rep); err != nil {
			return err
		}

		if !reported[project.Name] {
			reported[project.Name] = true
			switch {
			case newNames[project.Name]:
				result.NewProjects = append(result.NewProjects, *project)
			case existingNames[project.Name]:
				result.ExistingProjects = append(result.ExistingProjects, *project)
			}
		}
	}
	return nil
}

// parseCSV reads the input into the four derived tables. Users combine the
// student, TA, and rep columns in that order, deduplicated by email with
// the first occurrence winning; orgs and projects deduplicate by name.
func parseCSV(input io.Reader) (*csvData, error) {
	reader := csv.NewReader(input)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read row: %v", err)
		}
		records = append(records, record)
	}

	field := func(record []string, col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	data := &csvData{}
	seenUsers := make(map[string]bool)
	seenOrgs := make(map[string]bool)
	seenProjects := make(map[string]bool)

	addUser := func(record []string, prefix string) {
		row := importUserRow{
			email:          field(record, prefix+"_email"),
			name:           field(record, prefix+"_name"),
			githubUsername: field(record, prefix+"_github_username"),
		}
		if seenUsers[row.email] {
			return
		}
		seenUsers[row.email] = true
		data.users = append(data.users, row)
	}

	// Students first, then TAs, then reps, matching the dedup precedence
	// of the combined user table.
	for _, record := range records {
		addUser(record, "student")
	}
	for _, record := range records {
		addUser(record, "ta")
	}
	for _, record := range records {
		addUser(record, "client_rep")
	}

	for _, record := range records {
		orgName := field(record, "client_org_name")
		if !seenOrgs[orgName] {
			seenOrgs[orgName] = true
			data.orgs = append(data.orgs, orgName)
		}

		projectName := field(record, "project_name")
		if !seenProjects[projectName] {
			seenProjects[projectName] = true
			year, err := strconv.Atoi(field(record, "project_year"))
			if err != nil {
				return nil, fmt.Errorf("invalid project_year %q for project %q", field(record, "project_year"), projectName)
			}
			data.projects = append(data.projects, importProjectRow{
				name: projectName,
				year: year,
				term: field(record, "project_term"),
			})
		}

		data.links = append(data.links, importLinkRow{
			projectName:  projectName,
			orgName:      orgName,
			repEmail:     field(record, "client_rep_email"),
			taEmail:      field(record, "ta_email"),
			studentEmail: field(record, "student_email"),
		})
	}

	return data, nil
}

func describeUsers(users []models.User) string {
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = fmt.Sprintf("<User email=%q name=%q>", u.Email, u.Name)
	}
	return strings.Join(parts, ", ")
}
