package services

import (
	"context"
	"io"
	"sort"
	"strings"

	"robosnap_server/errors"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
)

// PhotoContentType is what every stored photo is served as
const PhotoContentType = "image/jpeg"

// Media keeps each user's photo library
type Media struct {
	*Deps
}

// Upload stores a photo under owner, keyed by the capture time in milliseconds.
// Two uploads in the same millisecond land on the same key.
func (s *Media) Upload(ctx context.Context, owner string, r io.Reader, size int64, progress io.Reader) (schemas.PhotoSchema, error) {

	if size == 0 {
		return schemas.PhotoSchema{}, errors.InvalidArgument("Photo")
	}

	id := helpers.PhotoID(s.now())
	name := owner + "/" + id

	written, err := s.Objects.Put(ctx, name, r, size, PhotoContentType, progress)
	if err != nil {
		return schemas.PhotoSchema{}, errors.Transport("photos", err)
	}

	url, err := s.Objects.URL(ctx, name)
	if err != nil {
		return schemas.PhotoSchema{}, errors.Transport("photos", err)
	}

	return schemas.PhotoSchema{
		ID:    id,
		Owner: owner,
		Size:  written,
		URL:   url,
	}, nil
}

// List returns owner's photos oldest first, each with a retrieval url
func (s *Media) List(ctx context.Context, owner string) ([]schemas.PhotoSchema, error) {

	prefix := owner + "/"

	objects, err := s.Objects.List(ctx, prefix)
	if err != nil {
		return nil, errors.Transport("photos", err)
	}

	photos := make([]schemas.PhotoSchema, 0, len(objects))
	for _, object := range objects {
		url, err := s.Objects.URL(ctx, object.Name)
		if err != nil {
			return nil, errors.Transport("photos", err)
		}
		photos = append(photos, schemas.PhotoSchema{
			ID:    strings.TrimPrefix(object.Name, prefix),
			Owner: owner,
			Size:  object.Size,
			URL:   url,
		})
	}

	sort.Slice(photos, func(i, j int) bool {
		return helpers.PhotoTime(photos[i].ID) < helpers.PhotoTime(photos[j].ID)
	})

	return photos, nil
}
