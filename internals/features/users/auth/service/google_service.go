package service

import (
	"errors"

	googleVerifier "github.com/futurenda/google-auth-id-token-verifier"

	"misradcrm_backend/internals/configs"
)

type GoogleProfile struct {
	Sub   string
	Email string
	Name  string
}

// VerifyGoogleIDToken checks the ID token signature and audience, then
// decodes the profile claims.
func VerifyGoogleIDToken(idToken string) (*GoogleProfile, error) {
	if configs.GoogleClientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is not set")
	}

	v := googleVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		return nil, err
	}

	claims, err := googleVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("google token has no email claim")
	}

	return &GoogleProfile{
		Sub:   claims.Sub,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
