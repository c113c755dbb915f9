// Package seed loads a set of sample events into an empty deployment.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/Shivanand-hulikatti/event-listing/internal/normalize"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed events.yaml
var sampleEvents []byte

type sampleEvent struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Overview    string   `yaml:"overview"`
	Image       string   `yaml:"image"`
	Venue       string   `yaml:"venue"`
	Location    string   `yaml:"location"`
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time"`
	Mode        string   `yaml:"mode"`
	Audience    string   `yaml:"audience"`
	Agenda      []string `yaml:"agenda"`
	Organizer   string   `yaml:"organizer"`
	Tags        []string `yaml:"tags"`
}

// EventCreator is the part of the service layer seeding needs.
type EventCreator interface {
	GetEvent(ctx context.Context, slug string) (*model.Event, error)
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
}

// Samples returns the bundled sample events as create requests.
func Samples() ([]model.CreateEventRequest, error) {
	return Parse(sampleEvents)
}

// Parse decodes a YAML list of events.
func Parse(data []byte) ([]model.CreateEventRequest, error) {
	var raw []sampleEvent
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode sample events: %w", err)
	}
	reqs := make([]model.CreateEventRequest, 0, len(raw))
	for _, s := range raw {
		reqs = append(reqs, model.CreateEventRequest{
			Title:       s.Title,
			Description: s.Description,
			Overview:    s.Overview,
			Image:       s.Image,
			Venue:       s.Venue,
			Location:    s.Location,
			Date:        s.Date,
			Time:        s.Time,
			Mode:        model.Mode(s.Mode),
			Audience:    s.Audience,
			Agenda:      s.Agenda,
			Organizer:   s.Organizer,
			Tags:        s.Tags,
		})
	}
	return reqs, nil
}

// Run creates every event in reqs whose base slug is not yet taken and
// returns how many were created. Running it twice is a no-op.
func Run(ctx context.Context, svc EventCreator, reqs []model.CreateEventRequest, logger *zap.Logger) (int, error) {
	created := 0
	for _, req := range reqs {
		slug := normalize.Slug(req.Title)
		_, err := svc.GetEvent(ctx, slug)
		switch {
		case err == nil:
			logger.Info("sample event exists, skipping", zap.String("slug", slug))
			continue
		case !errors.Is(err, model.ErrNotFound):
			return created, fmt.Errorf("look up %q: %w", slug, err)
		}

		e, err := svc.CreateEvent(ctx, req)
		if err != nil {
			return created, fmt.Errorf("create %q: %w", req.Title, err)
		}
		logger.Info("sample event created", zap.String("slug", e.Slug), zap.String("id", e.ID))
		created++
	}
	return created, nil
}
