package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// universityAdminMenu handles catalog administration.
func (c *Console) universityAdminMenu(ctx context.Context) {
	for {
		c.printf("\n--- University Management ---\n")
		c.printf("1) List universities\n")
		c.printf("2) View university details\n")
		c.printf("3) Add university\n")
		c.printf("4) Edit university\n")
		c.printf("5) Remove university\n")
		c.printf("6) List all emphases\n")
		c.printf("0) Back\n")

		choice, ok := c.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.listUniversities(ctx)
		case "2":
			c.viewDetails(ctx)
		case "3":
			c.addUniversity(ctx)
		case "4":
			c.editUniversity(ctx)
		case "5":
			c.removeUniversity(ctx)
		case "6":
			c.listAllEmphases(ctx)
		case "0":
			return
		default:
			c.printf("Unknown option %q.\n", choice)
		}
	}
}

func (c *Console) listUniversities(ctx context.Context) {
	universities, err := c.universities.All(ctx)
	if err != nil {
		c.printf("Listing failed: %v\n", err)
		return
	}
	for _, u := range universities {
		c.printf("  %s (%s)\n", u.Name(), u.State())
	}
	c.printf("%d universities.\n", len(universities))
}

// numericField pairs a prompt label with the setter it feeds.
type numericField struct {
	label string
	isInt bool
	setI  func(int) error
	setF  func(float64) error
}

// fillNumericFields prompts for every numeric field; blank keeps the
// current (or unknown) value. Returns false on EOF.
func (c *Console) fillNumericFields(u *domain.University) bool {
	fields := []numericField{
		{label: "Number of students: ", isInt: true, setI: u.SetNumStudents},
		{label: "Percent female: ", setF: u.SetPercentFemale},
		{label: "SAT verbal (200-800): ", setF: u.SetSatVerbal},
		{label: "SAT math (200-800): ", setF: u.SetSatMath},
		{label: "Expenses: ", setF: u.SetExpenses},
		{label: "Percent financial aid: ", setF: u.SetPercentFinancialAid},
		{label: "Number of applicants: ", isInt: true, setI: u.SetNumApplicants},
		{label: "Percent admitted: ", setF: u.SetPercentAdmitted},
		{label: "Percent enrolled: ", setF: u.SetPercentEnrolled},
		{label: "Academic scale (0-5): ", isInt: true, setI: u.SetScaleAcademics},
		{label: "Social scale (0-5): ", isInt: true, setI: u.SetScaleSocial},
		{label: "Quality of life scale (0-5): ", isInt: true, setI: u.SetScaleQualityOfLife},
	}

	for _, f := range fields {
		for {
			var err error
			if f.isInt {
				n, ok := c.promptInt(f.label)
				if !ok {
					return false
				}
				if n == domain.Unknown {
					break
				}
				err = f.setI(n)
			} else {
				v, ok := c.promptFloat(f.label)
				if !ok {
					return false
				}
				if v == domain.Unknown {
					break
				}
				err = f.setF(v)
			}
			if err == nil {
				break
			}
			c.printf("Invalid value: %v\n", err)
		}
	}
	return true
}

// fillStringFields prompts for state, location, and control; blank keeps
// the current value. Returns false on EOF.
func (c *Console) fillStringFields(u *domain.University) bool {
	prompts := []struct {
		label string
		set   func(string) error
	}{
		{"State: ", u.SetState},
		{"Location (URBAN/SUBURBAN/SMALL-CITY): ", u.SetLocation},
		{"Control (STATE/CITY/PRIVATE): ", u.SetControl},
	}
	for _, p := range prompts {
		for {
			line, ok := c.prompt(p.label)
			if !ok {
				return false
			}
			if line == "" {
				break
			}
			if err := p.set(strings.ToUpper(line)); err != nil {
				c.printf("Invalid value: %v\n", err)
				continue
			}
			break
		}
	}
	return true
}

// fillEmphases replaces the emphasis snapshot from a comma-separated line;
// blank keeps the current set. Returns false on EOF.
func (c *Console) fillEmphases(u *domain.University) bool {
	line, ok := c.prompt("Emphases (comma-separated, blank keeps current): ")
	if !ok {
		return false
	}
	if line == "" {
		return true
	}

	var tags []string
	for _, tag := range strings.Split(line, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if err := u.SetEmphases(tags); err != nil {
		c.printf("Invalid emphases: %v\n", err)
	}
	return true
}

func (c *Console) addUniversity(ctx context.Context) {
	name, ok := c.prompt("University name: ")
	if !ok {
		return
	}

	u, err := domain.NewUniversity(strings.ToUpper(name))
	if err != nil {
		c.printf("Invalid name: %v\n", err)
		return
	}
	if !c.fillStringFields(u) || !c.fillNumericFields(u) || !c.fillEmphases(u) {
		return
	}

	if err := c.universities.Add(ctx, u); err != nil {
		if errors.Is(err, store.ErrUniversityExists) {
			c.printf("%s already exists.\n", u.Name())
			return
		}
		c.printf("Add failed: %v\n", err)
		return
	}
	c.printf("%s added.\n", u.Name())
}

// editUniversity re-prompts every field over the stored record; blank
// answers keep current values. The emphasis line states the desired set;
// the service reconciles it against the stored relation.
func (c *Console) editUniversity(ctx context.Context) {
	name, ok := c.prompt("University name: ")
	if !ok {
		return
	}

	u, err := c.universities.Find(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			c.printf("%s is not found in the database.\n", strings.ToUpper(strings.TrimSpace(name)))
			return
		}
		c.printf("Lookup failed: %v\n", err)
		return
	}

	if !c.fillStringFields(u) || !c.fillNumericFields(u) || !c.fillEmphases(u) {
		return
	}

	if err := c.universities.Edit(ctx, u); err != nil {
		c.printf("Edit failed: %v\n", err)
		return
	}
	c.printf("%s updated.\n", u.Name())
}

func (c *Console) removeUniversity(ctx context.Context) {
	name, ok := c.prompt("University name: ")
	if !ok {
		return
	}

	if err := c.universities.Remove(ctx, name); err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			c.printf("%s is not found in the database.\n", strings.ToUpper(strings.TrimSpace(name)))
			return
		}
		c.printf("Remove failed: %v\n", err)
		return
	}
	c.printf("%s removed.\n", strings.ToUpper(strings.TrimSpace(name)))
}

func (c *Console) listAllEmphases(ctx context.Context) {
	tags, err := c.universities.AllEmphases(ctx)
	if err != nil {
		c.printf("Listing failed: %v\n", err)
		return
	}
	if len(tags) == 0 {
		c.printf("No emphases recorded.\n")
		return
	}
	c.printf("%s\n", strings.Join(tags, ", "))
}
