package api

import (
	"errors"
	"time"

	"github.com/craigeley/journal-companion-sub002/internal/records"
	"github.com/craigeley/journal-companion-sub002/internal/vault"
)

// EntryRequest is the request body for creating or updating an entry.
// Either Raw (a full markdown document with frontmatter) or the structured
// fields may be supplied; Raw wins when both are present so clients that
// hold unrecognized frontmatter can round-trip it untouched.
type EntryRequest struct {
	Raw string `json:"raw,omitempty"`

	DateCreated string   `json:"date_created,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Place       string   `json:"place,omitempty"`
	People      []string `json:"people,omitempty"`
	Content     string   `json:"content,omitempty"`

	Temperature *int64 `json:"temperature,omitempty"`
	Condition   string `json:"conditions,omitempty"`
	Humidity    *int64 `json:"humidity,omitempty"`
	AQI         *int64 `json:"aqi,omitempty"`

	MoodValence      *float64 `json:"mood_valence,omitempty"`
	MoodLabels       []string `json:"mood_labels,omitempty"`
	MoodAssociations []string `json:"mood_associations,omitempty"`

	AudioAttachments []string `json:"audio_attachments,omitempty"`
	RecordingDevice  string   `json:"recording_device,omitempty"`
	SampleRate       *int64   `json:"sample_rate,omitempty"`
	BitDepth         *int64   `json:"bit_depth,omitempty"`
}

// toEntry converts a structured request into an entry record.
func (req *EntryRequest) toEntry() (*records.Entry, error) {
	if req.DateCreated == "" {
		return nil, errors.New("date_created is required")
	}
	date, err := time.Parse(time.RFC3339, req.DateCreated)
	if err != nil {
		return nil, errors.New("date_created must be RFC 3339")
	}
	return &records.Entry{
		DateCreated:      date,
		Tags:             req.Tags,
		Place:            req.Place,
		People:           req.People,
		Content:          req.Content,
		Temperature:      req.Temperature,
		Condition:        req.Condition,
		Humidity:         req.Humidity,
		AQI:              req.AQI,
		MoodValence:      req.MoodValence,
		MoodLabels:       req.MoodLabels,
		MoodAssociations: req.MoodAssociations,
		AudioAttachments: req.AudioAttachments,
		RecordingDevice:  req.RecordingDevice,
		SampleRate:       req.SampleRate,
		BitDepth:         req.BitDepth,
	}, nil
}

// EntryDetail is the full entry response type (aliased from the domain layer).
type EntryDetail = vault.EntryDetail

// EntryListItem is a lightweight item in a list response.
type EntryListItem struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	DateCreated time.Time `json:"date_created"`
	Place       string    `json:"place,omitempty"`
	Tags        []string  `json:"tags"`
	Checksum    string    `json:"checksum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntryListResponse wraps paginated entry listings.
type EntryListResponse struct {
	Entries []EntryListItem `json:"entries"`
	Total   int             `json:"total"`
}

// PlaceRequest is the request body for saving a place.
type PlaceRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Callout   string   `json:"callout,omitempty"`
	Pin       string   `json:"pin,omitempty"`
	Color     string   `json:"color,omitempty"`
	URL       string   `json:"url,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Content   string   `json:"content,omitempty"`
}

func (req *PlaceRequest) toPlace() *records.Place {
	return &records.Place{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		Tags:      req.Tags,
		Callout:   req.Callout,
		Pin:       req.Pin,
		Color:     req.Color,
		URL:       req.URL,
		Aliases:   req.Aliases,
		Content:   req.Content,
	}
}

// PersonRequest is the request body for saving a person.
type PersonRequest struct {
	Name         string   `json:"name"`
	Pronouns     string   `json:"pronouns,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Birthday     string   `json:"birthday,omitempty"`
	Content      string   `json:"content,omitempty"`
}

func (req *PersonRequest) toPerson() *records.Person {
	return &records.Person{
		Name:         req.Name,
		Pronouns:     req.Pronouns,
		Relationship: req.Relationship,
		Tags:         req.Tags,
		Aliases:      req.Aliases,
		Email:        req.Email,
		Phone:        req.Phone,
		Birthday:     req.Birthday,
		Content:      req.Content,
	}
}

// ResolveRequest is the request body for resolving wikilinks in text.
type ResolveRequest struct {
	Text string `json:"text"`
}

// InsertRequest is the request body for applying a suggestion to editor text.
type InsertRequest struct {
	Text      string `json:"text"`
	Trigger   string `json:"trigger"`
	Insertion string `json:"insertion"`
}

// InsertResponse carries the rewritten text and the new cursor position.
type InsertResponse struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}
