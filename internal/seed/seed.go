// Package seed loads users and incidents from a YAML file into a backend.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/incidentboard/internal/access"
	"github.com/alexanderramin/incidentboard/internal/domain"
)

//go:embed demo.yaml
var demo []byte

// ErrInvalidFile is returned for seed files that reference unknown values.
var ErrInvalidFile = errors.New("invalid seed file")

// File is the YAML layout. Incidents refer to their assignee by user key
// or email.
type File struct {
	Users     []UserEntry     `yaml:"users"`
	Incidents []IncidentEntry `yaml:"incidents"`
}

type UserEntry struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"nombre"`
	Email string `yaml:"email"`
	Role  string `yaml:"rol"`
	State string `yaml:"estado"`
}

type IncidentEntry struct {
	Description string `yaml:"descripcion"`
	Status      string `yaml:"estado"`
	Priority    string `yaml:"prioridad"`
	Area        string `yaml:"area"`
	Module      string `yaml:"modulo"`
	Assignee    string `yaml:"responsable"`
	PhotoURL    string `yaml:"url_foto"`
}

// Target is what seeding writes to. service.Backend satisfies it.
type Target interface {
	CreateUser(ctx context.Context, u *domain.User) error
	CreateIncident(ctx context.Context, inc *domain.Incident) error
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
}

// Result counts what was written.
type Result struct {
	Users            int
	Incidents        int
	SkippedIncidents bool
}

// Demo returns the built-in demo data.
func Demo() (*File, error) {
	return Parse(demo)
}

// Parse decodes and validates a seed file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Read parses the seed file at path, or the demo data when path is empty.
func Read(path string) (*File, error) {
	if path == "" {
		return Demo()
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer fh.Close()
	data, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

func (f *File) validate() error {
	refs := make(map[string]bool, len(f.Users)*2)
	for i, u := range f.Users {
		if u.Email == "" {
			return fmt.Errorf("%w: user %d has no email", ErrInvalidFile, i+1)
		}
		if _, ok := access.ParseRole(u.Role); !ok {
			return fmt.Errorf("%w: user %s has unknown role %q", ErrInvalidFile, u.Email, u.Role)
		}
		switch domain.UserState(u.State) {
		case "", domain.UserActive, domain.UserInactive:
		default:
			return fmt.Errorf("%w: user %s has unknown state %q", ErrInvalidFile, u.Email, u.State)
		}
		refs[u.Email] = true
		if u.Key != "" {
			refs[u.Key] = true
		}
	}
	for i, inc := range f.Incidents {
		if inc.Status != "" {
			if _, ok := domain.ParseStatus(inc.Status); !ok {
				return fmt.Errorf("%w: incident %d has unknown status %q", ErrInvalidFile, i+1, inc.Status)
			}
		}
		if inc.Priority != "" && !domain.Priority(inc.Priority).Valid() {
			return fmt.Errorf("%w: incident %d has unknown priority %q", ErrInvalidFile, i+1, inc.Priority)
		}
		if inc.Assignee != "" && !refs[inc.Assignee] {
			return fmt.Errorf("%w: incident %d is assigned to unknown user %q", ErrInvalidFile, i+1, inc.Assignee)
		}
	}
	return nil
}

// Apply writes f into target. Users are matched by email so re-running is
// safe. Incidents are only written into an empty board unless force is set.
func Apply(ctx context.Context, target Target, f *File, force bool) (Result, error) {
	var res Result
	ids := make(map[string]int64, len(f.Users)*2)

	for _, entry := range f.Users {
		role, _ := access.ParseRole(entry.Role)
		u := &domain.User{
			Name:  entry.Name,
			Email: entry.Email,
			Role:  role,
			State: domain.UserState(entry.State),
		}
		if err := target.CreateUser(ctx, u); err != nil {
			return res, fmt.Errorf("seeding user %s: %w", entry.Email, err)
		}
		ids[entry.Email] = u.ID
		if entry.Key != "" {
			ids[entry.Key] = u.ID
		}
		res.Users++
	}

	if !force {
		existing, err := target.ListIncidents(ctx)
		if err != nil {
			return res, fmt.Errorf("checking existing incidents: %w", err)
		}
		if len(existing) > 0 {
			res.SkippedIncidents = true
			return res, nil
		}
	}

	for i, entry := range f.Incidents {
		inc := &domain.Incident{
			Priority:    domain.Priority(entry.Priority),
			Area:        entry.Area,
			Module:      entry.Module,
			Description: entry.Description,
			PhotoURL:    entry.PhotoURL,
		}
		if entry.Status != "" {
			inc.Status, _ = domain.ParseStatus(entry.Status)
		}
		if entry.Assignee != "" {
			id := ids[entry.Assignee]
			inc.AssigneeID = &id
		}
		if err := target.CreateIncident(ctx, inc); err != nil {
			return res, fmt.Errorf("seeding incident %d: %w", i+1, err)
		}
		res.Incidents++
	}
	return res, nil
}
