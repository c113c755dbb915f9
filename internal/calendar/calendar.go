// Package calendar exports events as iCalendar documents.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
)

// ProductID identifies this service in exported calendars.
const ProductID = "-//event-listing//events//EN"

// StartTime combines an event's canonical date and time in loc.
func StartTime(e *model.Event, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %s start: %w", e.ID, err)
	}
	return t, nil
}

// Render builds a calendar with one VEVENT per event. baseURL, when set,
// is used to link each entry back to the event page.
func Render(events []model.Event, loc *time.Location, baseURL string) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for i := range events {
		e := &events[i]
		start, err := StartTime(e, loc)
		if err != nil {
			return "", err
		}

		ve := cal.AddEvent(UID(e))
		ve.SetDtStampTime(e.UpdatedAt)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetModifiedAt(e.UpdatedAt)
		ve.SetStartAt(start)
		ve.SetSummary(e.Title)
		ve.SetDescription(e.Overview)
		ve.SetLocation(e.Venue + " - " + e.Location)
		if baseURL != "" {
			ve.SetURL(baseURL + "/events/" + e.Slug)
		}
		for _, tag := range e.Tags {
			ve.AddProperty(ics.ComponentPropertyCategories, tag)
		}
	}
	return cal.Serialize(), nil
}

// UID returns the stable iCalendar UID for e.
func UID(e *model.Event) string {
	return e.ID + "@event-listing"
}
