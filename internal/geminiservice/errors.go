package geminiservice

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is wrapped by CredentialError when no API key is configured.
var ErrMissingCredential = errors.New("gemini api key is not set")

// CredentialError is returned by NewGateway. It is fatal for the gateway.
type CredentialError struct {
	Env string
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %s: %v", e.Env, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// GenerationError covers every failure of the external call: transport,
// upstream rejection, or an unusable response envelope.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DecodeError reports text that is not valid JSON or does not match the
// use case's schema. Path is a JSON path such as "$[0].instructions".
type DecodeError struct {
	UseCase UseCase
	Path    string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode %s response: %v", e.UseCase, e.Err)
	}
	return fmt.Sprintf("decode %s response at %s: %v", e.UseCase, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
