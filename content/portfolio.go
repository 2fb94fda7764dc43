// Package content holds the portfolio data rendered by the site
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed portfolio.toml
var defaultPortfolio []byte

type Portfolio struct {
	Profile      Profile       `toml:"profile"`
	Education    []Education   `toml:"education"`
	Experience   Experience    `toml:"experience"`
	Skills       []SkillGroup  `toml:"skills"`
	Publications []Publication `toml:"publications"`
	Projects     []Project     `toml:"projects"`
	Talks        []Talk        `toml:"talks"`
	Contact      Contact       `toml:"contact"`
}

type Profile struct {
	Name            string    `toml:"name"`
	Title           string    `toml:"title"`
	About           string    `toml:"about"`
	Image           string    `toml:"image"`
	Subtitles       []string  `toml:"subtitles"`
	Greeting        [2]string `toml:"greeting"`
	AreasOfInterest []string  `toml:"areas_of_interest"`
}

// PageTitle is the document title
func (p Profile) PageTitle() string {
	if p.Title == "" {
		return p.Name
	}
	return p.Name + " | " + p.Title
}

type Education struct {
	Degree       string        `toml:"degree"`
	Institution  string        `toml:"institution"`
	Period       string        `toml:"period"`
	Grade        string        `toml:"grade"`
	Status       string        `toml:"status"`
	Coursework   string        `toml:"coursework"`
	CourseGroups []CourseGroup `toml:"course_groups"`
}

// Standing is the grade, or the status for ongoing programmes
func (e Education) Standing() string {
	if e.Grade != "" {
		return e.Grade
	}
	return e.Status
}

type CourseGroup struct {
	Category string `toml:"category"`
	Courses  string `toml:"courses"`
}

type Experience struct {
	Research []Role `toml:"research"`
	Industry []Role `toml:"industry"`
}

// ExperienceTabs lists the experience tabs in display order
var ExperienceTabs = []string{"research", "industry"}

// Tab returns the roles listed under the named tab
func (e Experience) Tab(name string) ([]Role, bool) {
	switch name {
	case "research":
		return e.Research, true
	case "industry":
		return e.Industry, true
	}
	return nil, false
}

type Role struct {
	Title       string    `toml:"title"`
	Period      string    `toml:"period"`
	Team        string    `toml:"team"`
	Description string    `toml:"description"`
	Work        []string  `toml:"work"`
	Advisors    []Advisor `toml:"advisors"`
}

type Advisor struct {
	Name string `toml:"name"`
	Link string `toml:"link"`
}

type SkillGroup struct {
	Category string  `toml:"category"`
	Items    []Skill `toml:"items"`
}

// DisplayName turns snake_case categories into words
func (g SkillGroup) DisplayName() string {
	return strings.ReplaceAll(g.Category, "_", " ")
}

type Skill struct {
	Name string `toml:"name"`
}

type Project struct {
	Image       string `toml:"img"`
	Title       string `toml:"title"`
	Description string `toml:"desc"`
	Tech        string `toml:"tech"`
}

// TechTags splits the comma separated tech list
func (p Project) TechTags() []string {
	if p.Tech == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(p.Tech, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type Talk struct {
	Image       string `toml:"img"`
	Title       string `toml:"title"`
	Description string `toml:"desc"`
	Date        string `toml:"date"`
}

type Contact struct {
	Email   string   `toml:"email"`
	Socials []Social `toml:"socials"`
}

type Social struct {
	Name string `toml:"name"`
	Link string `toml:"link"`
	Icon string `toml:"icon"`
}

// IconClass is the devicon class for the link, empty for text links
func (s Social) IconClass() string {
	if s.Name == "X" {
		return "devicon-twitter-original"
	}
	return s.Icon
}

// Parse decodes a TOML portfolio document
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a portfolio from a TOML file
func Load(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse portfolio %s: %w", path, err)
	}
	return p, nil
}

// Default returns the embedded portfolio
func Default() (*Portfolio, error) {
	p, err := Parse(defaultPortfolio)
	if err != nil {
		return nil, fmt.Errorf("parse embedded portfolio: %w", err)
	}
	return p, nil
}
