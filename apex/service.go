// Package apex provides Apex REST endpoint operations — calls into
// custom @RestResource classes, as distinct from tooling's
// execute-anonymous — generalizing the teacher's package of the same
// name onto internal/session.
package apex

import (
	"context"
	"encoding/json"

	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// Service provides Apex REST endpoint operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

func ensureLeadingSlash(path string) string {
	if len(path) > 0 && path[0] != '/' {
		return "/" + path
	}
	return path
}

// Get calls GET on an Apex REST endpoint.
func (s *Service) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.sess.RestGet(ctx, "/services/apexrest"+ensureLeadingSlash(path), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// GetJSON calls GET and unmarshals the JSON response into result.
func (s *Service) GetJSON(ctx context.Context, path string, result interface{}) error {
	body, err := s.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return sferrors.Wrap(sferrors.KindJSON, "failed to decode apex rest response", err)
	}
	return nil
}

// Post calls POST on an Apex REST endpoint.
func (s *Service) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	resp, err := s.sess.RestPost(ctx, "/services/apexrest"+ensureLeadingSlash(path), body, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// PostJSON calls POST and unmarshals the JSON response into result.
func (s *Service) PostJSON(ctx context.Context, path string, body, result interface{}) error {
	respBody, err := s.Post(ctx, path, body)
	if err != nil {
		return err
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return sferrors.Wrap(sferrors.KindJSON, "failed to decode apex rest response", err)
		}
	}
	return nil
}

// Patch calls PATCH on an Apex REST endpoint.
func (s *Service) Patch(ctx context.Context, path string, body interface{}) error {
	_, err := s.sess.RestPatch(ctx, "/services/apexrest"+ensureLeadingSlash(path), body)
	return err
}

// Delete calls DELETE on an Apex REST endpoint.
func (s *Service) Delete(ctx context.Context, path string) error {
	_, err := s.sess.RestDelete(ctx, "/services/apexrest"+ensureLeadingSlash(path))
	return err
}
