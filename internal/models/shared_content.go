package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeGraph = "graph"
	ContentTypeMixed = "mixed"
)

type ImageData struct {
	PublicID string `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Format   string `bson:"format,omitempty" json:"format,omitempty"`
	Width    int    `bson:"width,omitempty" json:"width,omitempty"`
	Height   int    `bson:"height,omitempty" json:"height,omitempty"`
}

// ImageElement is a described sub-region of an image or graph, referenced by
// follow-up explanation requests.
type ImageElement struct {
	ElementID   int    `bson:"element_id" json:"element_id"`
	Description string `bson:"description" json:"description"`
	Coordinates string `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// SharedContent is a text/image/graph prompt that grounds one or more ordered
// questions in common context.
type SharedContent struct {
	ID               string         `bson:"_id,omitempty" json:"id"`
	ContentType      string         `bson:"content_type" json:"content_type"`
	Title            string         `bson:"title" json:"title"`
	TextContent      string         `bson:"text_content,omitempty" json:"text_content,omitempty"`
	MediaURL         string         `bson:"media_url,omitempty" json:"media_url,omitempty"`
	ImageData        *ImageData     `bson:"image_data,omitempty" json:"image_data,omitempty"`
	ImageDescription string         `bson:"image_description,omitempty" json:"image_description,omitempty"`
	ImageElements    []ImageElement `bson:"image_elements,omitempty" json:"image_elements,omitempty"`
	Subject          string         `bson:"subject" json:"subject"`
	Difficulty       string         `bson:"difficulty" json:"difficulty"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at" json:"updated_at"`
}

func (sc *SharedContent) Validate() error {
	sc.Subject = strings.ToLower(strings.TrimSpace(sc.Subject))
	sc.Difficulty = strings.ToLower(strings.TrimSpace(sc.Difficulty))

	switch sc.ContentType {
	case ContentTypeText, ContentTypeImage, ContentTypeGraph, ContentTypeMixed:
	default:
		return fmt.Errorf("%w: unknown content type %q", ErrValidation, sc.ContentType)
	}
	if strings.TrimSpace(sc.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !ValidSubject(sc.Subject) {
		return fmt.Errorf("%w: unknown subject %q", ErrValidation, sc.Subject)
	}
	if !ValidDifficulty(sc.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrValidation, sc.Difficulty)
	}
	return nil
}

// Element returns the image element with the given id, or nil.
func (sc *SharedContent) Element(elementID int) *ImageElement {
	for i := range sc.ImageElements {
		if sc.ImageElements[i].ElementID == elementID {
			return &sc.ImageElements[i]
		}
	}
	return nil
}
